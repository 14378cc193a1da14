package entities

import "time"

// TimerKind is the purpose of a timer
type TimerKind string

const (
	TimerKindPomodoro TimerKind = "pomodoro"
	TimerKindStudy    TimerKind = "study"
	TimerKindBreak    TimerKind = "break"
	TimerKindReminder TimerKind = "reminder"
	TimerKindCustom   TimerKind = "custom"
)

// Valid reports whether k is a known kind
func (k TimerKind) Valid() bool {
	switch k {
	case TimerKindPomodoro, TimerKindStudy, TimerKindBreak, TimerKindReminder, TimerKindCustom:
		return true
	}
	return false
}

// Phase is the pomodoro phase a timer belongs to. Timers outside a session have no phase.
type Phase string

const (
	PhaseNone       Phase = ""
	PhaseWork       Phase = "work"
	PhaseShortBreak Phase = "shortBreak"
	PhaseLongBreak  Phase = "longBreak"
)

// IsBreak reports whether p is a short or long break
func (p Phase) IsBreak() bool {
	return p == PhaseShortBreak || p == PhaseLongBreak
}

// TimerState is the lifecycle state of a timer
type TimerState string

const (
	TimerStateRunning   TimerState = "running"
	TimerStatePaused    TimerState = "paused"
	TimerStateCompleted TimerState = "completed"
	TimerStateStopped   TimerState = "stopped"
)

// Pomodoro defaults
const (
	DefaultWorkSeconds       = 25 * 60
	DefaultShortBreakSeconds = 5 * 60
	DefaultLongBreakSeconds  = 15 * 60
	DefaultPomodoroCycles    = 4

	// LongBreakEvery is the number of completed work cycles between long breaks
	LongBreakEvery = 4
)

// PomodoroPlan carries the durations of a session through every phase
type PomodoroPlan struct {
	WorkSeconds       int
	ShortBreakSeconds int
	LongBreakSeconds  int
	TotalCycles       int
}

// DefaultPomodoroPlan is the classic 25/5/15 four cycle plan
func DefaultPomodoroPlan() PomodoroPlan {
	return PomodoroPlan{
		WorkSeconds:       DefaultWorkSeconds,
		ShortBreakSeconds: DefaultShortBreakSeconds,
		LongBreakSeconds:  DefaultLongBreakSeconds,
		TotalCycles:       DefaultPomodoroCycles,
	}
}

// Recurrence restarts a finished timer after IntervalSeconds.
// Times is the total number of runs; 0 repeats forever.
type Recurrence struct {
	IntervalSeconds int
	Times           int
}

// NotificationFlags enables the threshold notifications of a timer
type NotificationFlags struct {
	Halfway bool
	FiveMin bool
	OneMin  bool
}

// AllNotifications enables every threshold notification
func AllNotifications() NotificationFlags {
	return NotificationFlags{Halfway: true, FiveMin: true, OneMin: true}
}

// TimerSettings controls how notifications are presented
type TimerSettings struct {
	MentionOwner bool
	ShowProgress bool
}

// Timer is a countdown owned by one member. Timers live only in memory.
type Timer struct {
	ID          string
	OwnerID     string
	GuildID     string
	ChannelID   string
	Kind        TimerKind
	Name        string
	Description string

	DurationSeconds  int
	RemainingSeconds int
	StartedAt        time.Time
	ScheduledEndAt   time.Time

	IsActive bool
	IsPaused bool

	Phase       Phase
	CycleIndex  int
	TotalCycles int
	Plan        PomodoroPlan
	SessionID   string

	Recurring     *Recurrence
	Notifications NotificationFlags
	Settings      TimerSettings

	// HalfwaySent latches the halfway notification so it fires once
	HalfwaySent bool
}

// State derives the lifecycle state
func (t *Timer) State() TimerState {
	switch {
	case t.IsActive && t.IsPaused:
		return TimerStatePaused
	case t.IsActive:
		return TimerStateRunning
	case t.RemainingSeconds <= 0:
		return TimerStateCompleted
	default:
		return TimerStateStopped
	}
}

// InSession reports whether the timer is a phase of a pomodoro session
func (t *Timer) InSession() bool {
	return t.Phase != PhaseNone && t.TotalCycles > 0
}

// ElapsedSeconds is the running time consumed so far
func (t *Timer) ElapsedSeconds() int {
	return t.DurationSeconds - t.RemainingSeconds
}

// Clone returns a copy sharing no pointers with t
func (t Timer) Clone() Timer {
	if t.Recurring != nil {
		r := *t.Recurring
		t.Recurring = &r
	}
	return t
}

// TimerOptions are optional fields accepted when a timer is created
type TimerOptions struct {
	Description   string
	Phase         Phase
	CycleIndex    int
	TotalCycles   int
	Plan          PomodoroPlan
	SessionID     string
	Recurring     *Recurrence
	Notifications *NotificationFlags
	Settings      *TimerSettings
}

// PresetCategory groups presets
type PresetCategory string

const (
	PresetCategoryProductivity PresetCategory = "productivity"
	PresetCategoryStudy        PresetCategory = "study"
	PresetCategoryWellness     PresetCategory = "wellness"
	PresetCategoryCustom       PresetCategory = "custom"
)

// TimerPreset is a named, ready-made timer configuration
type TimerPreset struct {
	ID              string
	Name            string
	Kind            TimerKind
	DurationSeconds int
	Description     string
	Emoji           string
	Category        PresetCategory
}

// StudySession tracks a subject studied under a study timer
type StudySession struct {
	ID              string
	UserID          string
	Subject         string
	TimerID         string
	StartedAt       time.Time
	EndedAt         time.Time
	DurationMinutes int
	Completed       bool
}

// NotificationKind identifies a timer announcement
type NotificationKind string

const (
	NotificationHalfway         NotificationKind = "halfway"
	NotificationFiveMinutes     NotificationKind = "five_minutes"
	NotificationOneMinute       NotificationKind = "one_minute"
	NotificationCompleted       NotificationKind = "completed"
	NotificationPhaseTransition NotificationKind = "phase_transition"
	NotificationSessionComplete NotificationKind = "session_complete"
)

// TimerNotification is pushed to the timer's channel by the engine
type TimerNotification struct {
	Kind      NotificationKind
	ChannelID string
	Timer     Timer
	Next      *Timer
	Message   Message
}
