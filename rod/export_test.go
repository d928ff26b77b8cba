package rod

// SetLookPath replaces browser discovery for tests.
func (f *Fetcher) SetLookPath(fn func() (string, bool)) {
	f.lookPath = fn
}

// SetLaunchHook registers fn to receive the PID of every launched browser.
func (f *Fetcher) SetLaunchHook(fn func(pid int)) {
	f.onLaunch = fn
}

// ClassifyNavigation exposes classifyNavigation for tests.
var ClassifyNavigation = classifyNavigation
