package services

import (
	"fmt"
	"strings"

	"guildbot/domain/entities"
)

// FormatClock renders seconds as h:mm:ss, or m:ss under an hour
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m, s := seconds/3600, (seconds%3600)/60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// ProgressBar renders elapsed time as width cells followed by a percentage
func ProgressBar(t entities.Timer, width int) string {
	if width <= 0 {
		width = 20
	}
	elapsed, total := t.ElapsedSeconds(), t.DurationSeconds
	filled, percent := 0, 0
	if total > 0 {
		elapsed = min(max(elapsed, 0), total)
		filled = elapsed * width / total
		percent = elapsed * 100 / total
	}
	return fmt.Sprintf("%s%s %d%%", strings.Repeat("█", filled), strings.Repeat("░", width-filled), percent)
}

// TimerEmoji returns the icon for a timer kind
func TimerEmoji(kind entities.TimerKind) string {
	switch kind {
	case entities.TimerKindPomodoro:
		return "🍅"
	case entities.TimerKindStudy:
		return "📚"
	case entities.TimerKindBreak:
		return "☕"
	case entities.TimerKindCustom:
		return "⚙️"
	default:
		return "⏰"
	}
}

// Status renders the lifecycle state with its icon
func Status(t entities.Timer) string {
	switch t.State() {
	case entities.TimerStatePaused:
		return "⏸️ Paused"
	case entities.TimerStateRunning:
		return "▶️ Running"
	case entities.TimerStateCompleted:
		return "✅ Completed"
	default:
		return "⏹️ Stopped"
	}
}

// Summary is a multi-line plain text view of a timer
func Summary(t entities.Timer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s **%s**\n", TimerEmoji(t.Kind), t.Name)
	if t.Description != "" {
		fmt.Fprintf(&b, "%s\n", t.Description)
	}
	fmt.Fprintf(&b, "📊 Status: %s\n", Status(t))
	fmt.Fprintf(&b, "⏰ Time Remaining: %s / %s\n", FormatClock(t.RemainingSeconds), FormatClock(t.DurationSeconds))
	if t.Settings.ShowProgress {
		fmt.Fprintf(&b, "📈 %s\n", ProgressBar(t, 20))
	}
	if t.InSession() {
		fmt.Fprintf(&b, "🔄 Cycles: %d/%d\n", t.CycleIndex, t.TotalCycles)
	}
	fmt.Fprintf(&b, "🆔 `%s`", t.ID)
	return b.String()
}

func mention(t entities.Timer) string {
	if t.Settings.MentionOwner {
		return fmt.Sprintf("<@%s>", t.OwnerID)
	}
	return ""
}

func thresholdMessage(t entities.Timer, title, body string) entities.Message {
	desc := fmt.Sprintf("%s\n\n**Timer:** %s\n⏰ Time Remaining: %s", body, t.Name, FormatClock(t.RemainingSeconds))
	if t.Settings.ShowProgress {
		desc += "\n📊 " + ProgressBar(t, 20)
	}
	return entities.Message{Content: mention(t), Title: title, Description: desc, Color: entities.ColorWarning}
}

func completionMessage(t entities.Timer) entities.Message {
	desc := fmt.Sprintf("**%s** has finished!\n⏱️ Duration: %s", t.Name, FormatClock(t.DurationSeconds))
	if t.Description != "" {
		desc += "\n📝 " + t.Description
	}
	return entities.Message{Content: mention(t), Title: "🎉 Timer Completed!", Description: desc, Color: entities.ColorSuccess}
}

func transitionMessage(done, next entities.Timer) entities.Message {
	title := "🔄 Break Time Over!"
	body := "Break time is over. Ready to get back to work?"
	color := entities.ColorInfo
	if done.Phase == entities.PhaseWork {
		kind := "short"
		if next.Phase == entities.PhaseLongBreak {
			kind = "long"
		}
		title = "🎉 Work Session Complete!"
		body = fmt.Sprintf("Great job! Time for a %s break.", kind)
		color = entities.ColorSuccess
	}
	desc := fmt.Sprintf("%s\n📊 Progress: %d/%d cycles completed\n⏭️ Next Phase: %s\n⏰ Duration: %s",
		body, done.CycleIndex, done.TotalCycles, next.Name, FormatClock(next.DurationSeconds))
	return entities.Message{Content: mention(done), Title: title, Description: desc, Color: color}
}

func sessionCompleteMessage(t entities.Timer) entities.Message {
	desc := fmt.Sprintf("Congratulations! You've completed all %d work cycles!\n✅ Cycles Completed: %d/%d\n⏱️ Total Work Time: %s",
		t.TotalCycles, t.CycleIndex, t.TotalCycles, FormatClock(t.TotalCycles*t.Plan.WorkSeconds))
	return entities.Message{Content: mention(t), Title: "🏆 Pomodoro Session Complete!", Description: desc, Color: entities.ColorSuccess}
}
