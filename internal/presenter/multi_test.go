package presenter

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recording struct {
	events []string
}

func (r *recording) add(format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recording) ShowChecking()   { r.add("checking") }
func (r *recording) DismissPanel()   { r.add("dismiss") }
func (r *recording) ShowDownload()   { r.add("download") }
func (r *recording) ShowInstalling() { r.add("installing") }
func (r *recording) UpdateDownloadProgress(p int, d, t float64) {
	r.add("progress %d %.1f %.1f", p, d, t)
}
func (r *recording) ShowUpToDate(v string)          { r.add("up-to-date %s", v) }
func (r *recording) ShowUpdateRequired(c, l string) { r.add("required %s %s", c, l) }
func (r *recording) ShowUpdateError(msg string)     { r.add("error %s", msg) }

func TestMulti_FansOut(t *testing.T) {
	a, b := &recording{}, &recording{}
	m := NewMulti(a, nil, b, Nop{})

	assert.Len(t, m, 3)

	m.ShowChecking()
	m.DismissPanel()
	m.ShowUpdateRequired("1.0.0", "2.0.0")
	m.ShowDownload()
	m.UpdateDownloadProgress(50, 1, 2)
	m.ShowInstalling()
	m.ShowUpToDate("1.0.0")
	m.ShowUpdateError("boom")

	want := []string{
		"checking",
		"dismiss",
		"required 1.0.0 2.0.0",
		"download",
		"progress 50 1.0 2.0",
		"installing",
		"up-to-date 1.0.0",
		"error boom",
	}
	assert.Equal(t, want, a.events)
	assert.Equal(t, want, b.events)
}

func TestMulti_Empty(t *testing.T) {
	m := NewMulti()
	assert.NotPanics(t, func() {
		m.ShowChecking()
		m.UpdateDownloadProgress(IndeterminatePercent, 0, 0)
	})
}
