package report

import (
	"fmt"
	"strings"
	"time"
)

// Digest text is what lands in the shop's chat channel, so it stays in
// Vietnamese and keeps one order per line for skimming on a phone.

func headline(icon, title string, day time.Time) string {
	return fmt.Sprintf("%s %s (%s)", icon, title, day.Format("02/01"))
}

// UnestimatedDigest lists intakes that still have no work-time estimate.
func UnestimatedDigest(codes []string, day time.Time, dayLabel string) string {
	var b strings.Builder
	b.WriteString(headline("⏱", fmt.Sprintf("Đơn %s chưa có thời gian làm", dayLabel), day))
	for _, code := range codes {
		b.WriteString("\n- ")
		b.WriteString(code)
	}
	b.WriteString(fmt.Sprintf("\nTổng: %d đơn", len(codes)))
	return b.String()
}

// DueDigest lists orders promised for today.
func DueDigest(items []DueItem, today time.Time) string {
	var b strings.Builder
	b.WriteString(headline("📦", "Đơn hẹn trả hôm nay", today))
	for _, item := range items {
		b.WriteString(fmt.Sprintf("\n- %s (hẹn %s)", item.Code, item.DueText))
	}
	b.WriteString(fmt.Sprintf("\nTổng: %d đơn", len(items)))
	return b.String()
}

// OverdueDigest lists orders already past their promise date.
func OverdueDigest(items []DueItem, today time.Time) string {
	var b strings.Builder
	b.WriteString(headline("⚠️", "Đơn quá hẹn trả", today))
	for _, item := range items {
		b.WriteString(fmt.Sprintf("\n- %s (hẹn %s)", item.Code, item.DueText))
	}
	b.WriteString(fmt.Sprintf("\nTổng: %d đơn", len(items)))
	return b.String()
}

// FlaggedDigest lists per-invoice extra work discovered after intake.
func FlaggedDigest(groups []FlaggedGroup, today time.Time) string {
	var b strings.Builder
	b.WriteString(headline("❗", "Đơn phát sinh", today))
	for _, group := range groups {
		b.WriteString("\n- ")
		b.WriteString(group.Code)
		for _, item := range group.Items {
			switch {
			case item.ProductName != "" && item.Work != "":
				b.WriteString(fmt.Sprintf("\n    %s: %s", item.ProductName, item.Work))
			case item.ProductName != "":
				b.WriteString(fmt.Sprintf("\n    %s", item.ProductName))
			default:
				b.WriteString(fmt.Sprintf("\n    %s", item.Work))
			}
		}
	}
	b.WriteString(fmt.Sprintf("\nTổng: %d đơn", len(groups)))
	return b.String()
}
