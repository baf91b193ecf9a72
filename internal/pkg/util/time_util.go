package util

import "time"

// SameDay 判断两个时间是否落在同一个自然日
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DayLabel 将时间归类为 Today / Yesterday / 绝对日期，用于消息列表的日期分隔
func DayLabel(t, now time.Time) string {
	if SameDay(t, now) {
		return "Today"
	}
	if SameDay(t, now.AddDate(0, 0, -1)) {
		return "Yesterday"
	}
	if t.Year() != now.Year() {
		return t.Format("2 Jan 2006")
	}
	return t.Format("2 Jan")
}

// FmtTime 消息气泡右下角的时分展示
func FmtTime(t time.Time) string {
	return t.Format("15:04")
}
