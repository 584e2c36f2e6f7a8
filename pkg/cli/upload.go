package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EternisAI/recollect/pkg/helpers"
	"github.com/EternisAI/recollect/pkg/uploader"
)

func init() {
	uploadCmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload content to the memory backend",
	}

	textCmd := &cobra.Command{
		Use:   "text <content>",
		Short: "Upload a free-form text snippet",
		Args:  cobra.ExactArgs(1),
		Run:   runUploadText,
	}
	addUploadFlags(textCmd)
	textCmd.Flags().String("metadata", "", "Additional metadata as a JSON object")

	fileCmd := &cobra.Command{
		Use:   "file <path>",
		Short: "Parse one file and upload its messages",
		Args:  cobra.ExactArgs(1),
		Run:   runUploadFile,
	}
	addUploadFlags(fileCmd)

	dirCmd := &cobra.Command{
		Use:   "dir <path>",
		Short: "Upload every supported file in a directory",
		Args:  cobra.ExactArgs(1),
		Run:   runUploadDir,
	}
	addUploadFlags(dirCmd)
	dirCmd.Flags().Bool("recursive", true, "Recurse into subdirectories")

	uploadCmd.AddCommand(textCmd, fileCmd, dirCmd)
	RootCmd.AddCommand(uploadCmd)
}

func addUploadFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("extract-mode", "m", "", "Extraction mode: auto or raw (default: configured mode)")
	cmd.Flags().String("custom-instructions", "", "Processing instructions forwarded to the backend")
	cmd.Flags().String("includes", "", "Content categories to include")
	cmd.Flags().String("excludes", "", "Content categories to exclude")
	cmd.Flags().Bool("infer", false, "Force backend inference on")
	cmd.Flags().Bool("no-infer", false, "Force backend inference off (store verbatim)")
	cmd.MarkFlagsMutuallyExclusive("infer", "no-infer")
}

// uploadOptions translates flags into uploader options, keeping the
// absent/true/false tri-state of the inference toggle intact.
func uploadOptions(cmd *cobra.Command) (uploader.Options, error) {
	opts := uploader.Options{UserID: userFlag}
	opts.ExtractMode, _ = cmd.Flags().GetString("extract-mode")

	if v, _ := cmd.Flags().GetString("custom-instructions"); v != "" {
		opts.CustomInstructions = helpers.Ptr(v)
	}
	if v, _ := cmd.Flags().GetString("includes"); v != "" {
		opts.Includes = helpers.Ptr(v)
	}
	if v, _ := cmd.Flags().GetString("excludes"); v != "" {
		opts.Excludes = helpers.Ptr(v)
	}
	if on, _ := cmd.Flags().GetBool("infer"); on {
		opts.Infer = helpers.Ptr(true)
	}
	if off, _ := cmd.Flags().GetBool("no-infer"); off {
		opts.Infer = helpers.Ptr(false)
	}

	if raw, _ := cmd.Flags().GetString("metadata"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &opts.Metadata); err != nil {
			return opts, fmt.Errorf("parse --metadata: %w", err)
		}
	}
	return opts, nil
}

func runUploadText(cmd *cobra.Command, args []string) {
	opts, err := uploadOptions(cmd)
	if err != nil {
		exitErr("flags", err)
	}

	app, err := newApp()
	if err != nil {
		exitErr("startup", err)
	}
	defer app.close()

	records, err := app.uploader.UploadText(cmd.Context(), args[0], opts)
	if err != nil {
		exitErr("upload text", err)
	}
	printStoredRecords(records)
}

func runUploadFile(cmd *cobra.Command, args []string) {
	opts, err := uploadOptions(cmd)
	if err != nil {
		exitErr("flags", err)
	}

	app, err := newApp()
	if err != nil {
		exitErr("startup", err)
	}
	defer app.close()

	records, err := app.uploader.UploadFile(cmd.Context(), args[0], opts)
	if err != nil {
		exitErr("upload file", err)
	}
	printStoredRecords(records)
}

func runUploadDir(cmd *cobra.Command, args []string) {
	opts, err := uploadOptions(cmd)
	if err != nil {
		exitErr("flags", err)
	}
	recursive, _ := cmd.Flags().GetBool("recursive")

	app, err := newApp()
	if err != nil {
		exitErr("startup", err)
	}
	defer app.close()

	results, err := app.uploader.UploadDirectory(cmd.Context(), args[0], recursive, opts)
	if err != nil {
		exitErr("upload directory", err)
	}
	if len(results) == 0 {
		exitErr("upload directory", uploader.ErrNoSupportedFiles)
	}
	printUploadResults(results)
}
