package view

import (
	"fmt"
	"time"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// SessionStats shows session and total capture durations plus frame counts.
type SessionStats interface {
	SetSession(d time.Duration)
	SetTotal(d time.Duration)
	SetFrames(text string)
}

type sessionStats struct {
	sessionLbl *LabelWidget
	totalLbl   *LabelWidget
	framesLbl  *LabelWidget
}

// NewSessionStats creates the labels in parent at (row, startCol..startCol+2).
func NewSessionStats(parent *FrameWidget, row, startCol int) SessionStats {
	s := &sessionStats{sessionLbl: Label(Width(14)), totalLbl: Label(Width(14)), framesLbl: Label(Width(26))}
	for i, l := range []*LabelWidget{s.sessionLbl, s.totalLbl, s.framesLbl} {
		Grid(l, In(parent), Row(row), Column(startCol+i), Sticky("w"), Padx("0.2m"))
	}
	s.sessionLbl.Configure(Txt("Session: 00:00"))
	s.totalLbl.Configure(Txt("Total: 00:00"))
	s.framesLbl.Configure(Txt("Frames: 0 / 0"))
	return s
}

func (s *sessionStats) SetSession(d time.Duration) {
	if s == nil || s.sessionLbl == nil {
		return
	}
	s.sessionLbl.Configure(Txt("Session: " + clock(d)))
}

func (s *sessionStats) SetTotal(d time.Duration) {
	if s == nil || s.totalLbl == nil {
		return
	}
	s.totalLbl.Configure(Txt("Total: " + clock(d)))
}

func (s *sessionStats) SetFrames(text string) {
	if s == nil || s.framesLbl == nil {
		return
	}
	s.framesLbl.Configure(Txt(text))
}

func clock(d time.Duration) string {
	seconds := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
