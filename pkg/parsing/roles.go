package parsing

import "strings"

// roleAliases is checked in order; the user set wins ties by coming first.
var roleAliases = []struct {
	role    Role
	aliases []string
}{
	{RoleUser, []string{"user", "human", "you", "me", "用户", "我"}},
	{RoleAssistant, []string{"assistant", "ai", "bot", "gpt", "claude", "chatgpt", "助手", "机器人"}},
	{RoleSystem, []string{"system", "sys", "系统"}},
}

// NormalizeRole maps a free-form speaker label onto the closed role set.
// Matching is case-insensitive substring containment; the first alias set
// with a hit wins. Unrecognized labels are attributed to the user rather
// than rejected.
func NormalizeRole(raw string) Role {
	label := strings.ToLower(strings.TrimSpace(raw))
	for _, set := range roleAliases {
		for _, alias := range set.aliases {
			if strings.Contains(label, alias) {
				return set.role
			}
		}
	}
	return RoleUser
}
