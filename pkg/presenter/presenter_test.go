package presenter

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func newTestPresenter() (*Presenter, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return NewWithWriters(out, errOut), out, errOut
}

func TestPresenterError(t *testing.T) {
	p, out, errOut := newTestPresenter()

	p.Error(errors.New("boom"), "loading skills")
	assert.Contains(t, errOut.String(), "[ERROR]")
	assert.Contains(t, errOut.String(), "loading skills")
	assert.Contains(t, errOut.String(), "boom")
	assert.Empty(t, out.String())

	errOut.Reset()
	p.Error(nil, "ignored")
	assert.Empty(t, errOut.String())
}

func TestPresenterInfoAndSuccess(t *testing.T) {
	p, out, _ := newTestPresenter()

	p.Info("registered 3 skills")
	p.Success("done")
	assert.Contains(t, out.String(), "registered 3 skills")
	assert.Contains(t, out.String(), "done")
}

func TestPresenterQuietMode(t *testing.T) {
	p, out, errOut := newTestPresenter()
	p.SetQuiet(true)

	p.Info("hidden")
	p.Success("hidden")
	p.Warning("hidden")
	p.Section("hidden")
	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())

	// errors always surface
	p.Error(errors.New("boom"), "")
	assert.Contains(t, errOut.String(), "boom")
}

func TestPresenterSection(t *testing.T) {
	p, out, _ := newTestPresenter()

	p.Section("Skills")
	assert.Contains(t, out.String(), "Skills")
	assert.Contains(t, out.String(), "------")
}

func TestPresenterWarning(t *testing.T) {
	p, out, errOut := newTestPresenter()

	p.Warning("bundle rejected")
	assert.Contains(t, errOut.String(), "[WARNING] bundle rejected")
	assert.Empty(t, out.String())
}
