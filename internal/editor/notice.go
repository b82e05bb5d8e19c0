package editor

import "time"

type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

// Notice is a non-blocking, user-visible notification. Failed fetches,
// submits, deletes and uploads end up here instead of crashing the screen.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
	Time    time.Time   `json:"time"`
}

const maxNotices = 32

// noticeLog is a bounded feed of pending notices. It is guarded by the
// controller's lock.
type noticeLog struct {
	entries []Notice
}

func (l *noticeLog) push(level NoticeLevel, message string) {
	l.entries = append(l.entries, Notice{Level: level, Message: message, Time: time.Now()})
	if len(l.entries) > maxNotices {
		l.entries = l.entries[len(l.entries)-maxNotices:]
	}
}

// drain hands every pending notice to the caller and clears the feed.
func (l *noticeLog) drain() []Notice {
	out := l.entries
	l.entries = nil
	return out
}
