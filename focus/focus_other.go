//go:build !windows && !darwin

package focus

const clickToFocus = false

// SetForegroundByTitle はこの OS では未対応で、常に false を返します。
func SetForegroundByTitle(title string) bool { return false }

// ListVisibleWindowTitles はこの OS では未対応です。
func ListVisibleWindowTitles() []string { return nil }
