//go:build darwin

package focus

// macOS ではクリックしないとキャプチャ対象のアプリが前面にならないことがある。
const clickToFocus = true

// SetForegroundByTitle は macOS では未対応で、常に false を返します。
func SetForegroundByTitle(title string) bool { return false }

// ListVisibleWindowTitles は macOS では未対応です。
func ListVisibleWindowTitles() []string { return nil }
