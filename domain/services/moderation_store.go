package services

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"sync"
	"time"

	"guildbot/domain/entities"
	"guildbot/domain/interfaces"
	"guildbot/events"
	"guildbot/storage"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

// DefaultAutoMuteWarnings is the warning count at which an auto-mute is signalled
const DefaultAutoMuteWarnings = 3

var durationPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

// ParseDuration parses moderator durations such as 10s, 10m, 1h or 1d
func ParseDuration(s string) (time.Duration, error) {
	m := durationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}

	unit := map[string]time.Duration{
		"s": time.Second,
		"m": time.Minute,
		"h": time.Hour,
		"d": 24 * time.Hour,
	}[m[2]]
	return time.Duration(n) * unit, nil
}

// ModerationStore keeps a guild's warnings and timed mutes
type ModerationStore struct {
	guildID   string
	warnings  *storage.Document[[]entities.Warning]
	mutes     *storage.Document[entities.MuteRecord]
	clock     clockwork.Clock
	publisher interfaces.EventPublisher
	moderator interfaces.MemberModerator
	threshold int
	newID     func() string

	mu sync.Mutex
}

// NewModerationStore creates the moderation records for one guild
func NewModerationStore(
	guildID string,
	warnings *storage.Document[[]entities.Warning],
	mutes *storage.Document[entities.MuteRecord],
	clock clockwork.Clock,
	publisher interfaces.EventPublisher,
	moderator interfaces.MemberModerator,
	threshold int,
) *ModerationStore {
	if threshold <= 0 {
		threshold = DefaultAutoMuteWarnings
	}
	return &ModerationStore{
		guildID:   guildID,
		warnings:  warnings,
		mutes:     mutes,
		clock:     clock,
		publisher: publisher,
		moderator: moderator,
		threshold: threshold,
		newID:     uuid.NewString,
	}
}

// Warn records a warning. ThresholdReached is set once the member has at least
// threshold warnings; applying the mute is up to the caller.
func (s *ModerationStore) Warn(ctx context.Context, userID, moderatorID, reason string) entities.WarnResult {
	var batch events.Batch
	defer batch.Flush(s.publisher)

	s.mu.Lock()
	defer s.mu.Unlock()

	if reason == "" {
		reason = "No reason provided"
	}
	w := entities.Warning{
		ID:          s.newID(),
		ModeratorID: moderatorID,
		Reason:      reason,
		Timestamp:   s.clock.Now(),
	}

	key := storage.Key(s.guildID, userID)
	list, _ := s.warnings.Get(key)
	list = append(slices.Clone(list), w)
	s.warnings.Put(ctx, key, list)

	res := entities.WarnResult{Warning: w, Count: len(list), ThresholdReached: len(list) >= s.threshold}
	if res.ThresholdReached {
		batch.Add(events.AutoMuteThresholdEvent{GuildID: s.guildID, UserID: userID, Warnings: res.Count})
	}

	log.WithFields(log.Fields{
		"guildID":     s.guildID,
		"userID":      userID,
		"moderatorID": moderatorID,
		"count":       res.Count,
	}).Info("Member warned")
	return res
}

// Warnings returns a member's warnings, oldest first
func (s *ModerationStore) Warnings(userID string) []entities.Warning {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, _ := s.warnings.Get(storage.Key(s.guildID, userID))
	return slices.Clone(list)
}

// ClearWarnings removes one warning by id, or every warning when id is empty.
// It returns how many warnings were removed.
func (s *ModerationStore) ClearWarnings(ctx context.Context, userID, warningID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := storage.Key(s.guildID, userID)
	list, _ := s.warnings.Get(key)

	if warningID == "" {
		if len(list) > 0 {
			s.warnings.Delete(ctx, key)
		}
		return len(list), nil
	}

	idx := slices.IndexFunc(list, func(w entities.Warning) bool { return w.ID == warningID })
	if idx < 0 {
		return 0, fmt.Errorf("%w: %s", ErrWarningNotFound, warningID)
	}

	rest := slices.Delete(slices.Clone(list), idx, idx+1)
	if len(rest) == 0 {
		s.warnings.Delete(ctx, key)
	} else {
		s.warnings.Put(ctx, key, rest)
	}
	return 1, nil
}

// Mute records a timed mute ending duration from now, replacing any earlier one
func (s *ModerationStore) Mute(ctx context.Context, userID string, duration time.Duration) (entities.MuteRecord, error) {
	if duration <= 0 {
		return entities.MuteRecord{}, fmt.Errorf("%w: %s", ErrInvalidDuration, duration)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := entities.MuteRecord{
		UserID:   userID,
		GuildID:  s.guildID,
		UnmuteAt: s.clock.Now().Add(duration),
	}
	s.mutes.Put(ctx, storage.Key(s.guildID, userID), rec)

	log.WithFields(log.Fields{
		"guildID":  s.guildID,
		"userID":   userID,
		"unmuteAt": rec.UnmuteAt,
	}).Info("Member muted")
	return rec, nil
}

// Unmute forgets a member's mute record. It reports whether one existed.
func (s *ModerationStore) Unmute(ctx context.Context, userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutes.Delete(ctx, storage.Key(s.guildID, userID))
}

// IsMuted reports whether a member has an unexpired mute record
func (s *ModerationStore) IsMuted(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.mutes.Get(storage.Key(s.guildID, userID))
	return ok && !rec.Expired(s.clock.Now())
}

// ExpireDue lifts every mute whose unmute time has passed. The record is deleted even
// when removing the role fails. It returns the number of mutes lifted.
func (s *ModerationStore) ExpireDue(ctx context.Context) int {
	s.mu.Lock()
	now := s.clock.Now()
	var due []entities.MuteRecord
	for key, rec := range s.mutes.Scan(s.guildID + "-") {
		if rec.Expired(now) {
			due = append(due, rec)
			s.mutes.Delete(ctx, key)
		}
	}
	s.mu.Unlock()

	for _, rec := range due {
		fields := log.Fields{
			"guildID": s.guildID,
			"userID":  rec.UserID,
		}
		if s.moderator == nil {
			log.WithFields(fields).Info("Mute expired")
			continue
		}
		if err := s.moderator.RemoveMuteRole(ctx, s.guildID, rec.UserID); err != nil {
			fields["error"] = err
			log.WithFields(fields).Warn("Failed to remove mute role")
			continue
		}
		log.WithFields(fields).Info("Mute expired, role removed")
	}
	return len(due)
}
