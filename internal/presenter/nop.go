package presenter

// Nop discards every notification.
type Nop struct{}

var _ Surface = Nop{}

func (Nop) ShowChecking()                                {}
func (Nop) DismissPanel()                                {}
func (Nop) ShowDownload()                                {}
func (Nop) UpdateDownloadProgress(int, float64, float64) {}
func (Nop) ShowInstalling()                              {}
func (Nop) ShowUpToDate(string)                          {}
func (Nop) ShowUpdateRequired(string, string)            {}
func (Nop) ShowUpdateError(string)                       {}
