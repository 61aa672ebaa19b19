package entities

// PageInfo captures where a session was when a scenario failed
type PageInfo struct {
	URL            string `json:"url"`
	Title          string `json:"title"`
	Screenshot     []byte `json:"-"`
	ScreenshotPath string `json:"screenshot_path,omitempty"`
}
