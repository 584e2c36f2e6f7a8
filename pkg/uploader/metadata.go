package uploader

import "time"

// MergeMetadata combines parsed document metadata with caller-supplied
// metadata and the upload options into a new map. Precedence, lowest to
// highest: parsed < caller < fresh upload fields. The fresh fields
// (upload_time, user_id, extract_mode) are computed here and cannot be
// overridden by caller metadata, so a caller can never forge the upload
// timestamp. Tri-state processing options are recorded only when set;
// an explicit Infer=false is recorded, a nil Infer is not.
func MergeMetadata(parsed, caller map[string]any, opts Options, now time.Time) map[string]any {
	merged := make(map[string]any, len(parsed)+len(caller)+7)
	for k, v := range parsed {
		merged[k] = v
	}
	for k, v := range caller {
		merged[k] = v
	}

	merged["upload_time"] = now.Format(time.RFC3339)
	merged["user_id"] = opts.UserID
	merged["extract_mode"] = opts.ExtractMode

	if opts.CustomInstructions != nil {
		merged["custom_instructions"] = *opts.CustomInstructions
	}
	if opts.Includes != nil {
		merged["includes"] = *opts.Includes
	}
	if opts.Excludes != nil {
		merged["excludes"] = *opts.Excludes
	}
	if opts.Infer != nil {
		merged["infer"] = *opts.Infer
	}

	return merged
}
