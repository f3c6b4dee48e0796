package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noborus/ov/oviewer"
	"github.com/sirupsen/logrus"
)

// PagerOps hands the terminal to ov for long documents
type PagerOps struct {
	program *tea.Program
	log     *logrus.Entry
}

// NewPagerOps creates a pager; the program is attached later with SetProgram
func NewPagerOps(log *logrus.Entry) *PagerOps {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &PagerOps{log: log}
}

// SetProgram sets the program reference for terminal management
func (p *PagerOps) SetProgram(program *tea.Program) {
	p.program = program
}

// Show returns a command that pages content and reports back to screenID
func (p *PagerOps) Show(screenID int, content string) tea.Cmd {
	return func() tea.Msg {
		if p.program == nil {
			return pagerMsg{screen: screenID, err: fmt.Errorf("program not set")}
		}

		p.program.Send(pauseRenderingMsg{})
		err := p.run(content)
		p.program.Send(resumeRenderingMsg{})

		if err != nil {
			p.log.WithError(err).Warn("pager failed")
		}
		return pagerMsg{screen: screenID, err: err}
	}
}

func (p *PagerOps) run(content string) error {
	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}
	defer func() {
		// give ov a moment to leave the alternate screen
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
