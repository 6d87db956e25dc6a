package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

const (
	defaultNoticeTTL   = 5 * time.Second
	noticeTickInterval = 100 * time.Millisecond
)

type noticeTickMsg time.Time

func scheduleNoticeTick() tea.Cmd {
	return tea.Tick(noticeTickInterval, func(t time.Time) tea.Msg {
		return noticeTickMsg(t)
	})
}

// Notice is a transient status message shown under the form.
type Notice struct {
	Message   string
	remaining time.Duration
}

// NoticeController holds the current notice and counts down its TTL.
// Only one notice is shown at a time; a new one replaces the old.
type NoticeController struct {
	current *Notice
	ticking bool
}

func NewNoticeController() *NoticeController {
	return &NoticeController{}
}

// Show replaces the current notice with msg.
func (c *NoticeController) Show(msg string) {
	c.current = &Notice{Message: msg, remaining: defaultNoticeTTL}
}

// Tick decrements the remaining TTL by d and clears the notice once expired.
func (c *NoticeController) Tick(d time.Duration) {
	if c.current == nil {
		return
	}
	c.current.remaining -= d
	if c.current.remaining <= 0 {
		c.current = nil
	}
}

// Dismiss clears the current notice.
func (c *NoticeController) Dismiss() {
	c.current = nil
}

// Current returns the visible notice, if any.
func (c *NoticeController) Current() (Notice, bool) {
	if c.current == nil {
		return Notice{}, false
	}
	return *c.current, true
}

// Ticking returns whether the tick timer is currently running.
func (c *NoticeController) Ticking() bool {
	return c.ticking
}

// SetTicking sets the tick timer state.
func (c *NoticeController) SetTicking(v bool) {
	c.ticking = v
}
