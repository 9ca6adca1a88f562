package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/berrythewa/neowatch/internal/types"
	"github.com/berrythewa/neowatch/pkg/compression"
	"github.com/berrythewa/neowatch/pkg/utils"
)

const (
	sessionsBucket = "sessions"
	framesBucket   = "frames"
)

var (
	// ErrSessionNotFound is returned when no session matches an ID prefix
	ErrSessionNotFound = errors.New("session not found")
	// ErrAmbiguousSession is returned when an ID prefix matches several sessions
	ErrAmbiguousSession = errors.New("session prefix is ambiguous")
)

// SessionInfo describes one recorded watch session
type SessionInfo struct {
	ID          string    `json:"id"`
	CommandLine string    `json:"command_line"`
	Started     time.Time `json:"started"`
	Updated     time.Time `json:"updated"`
	Frames      int       `json:"frames"`
	Bytes       int64     `json:"bytes"` // stored size of all frames
}

// storedFrame is the on-disk form of a frame
type storedFrame struct {
	Seq        uint64        `json:"seq"`
	Started    time.Time     `json:"started"`
	Duration   time.Duration `json:"duration"`
	ExitCode   int           `json:"exit_code"`
	Data       []byte        `json:"data"`
	Compressed bool          `json:"compressed,omitempty"`
}

// BoltStorage records watch sessions and their frames in a bbolt database
type BoltStorage struct {
	db           *bbolt.DB
	logger       *zap.Logger
	keepSessions int
	compress     bool
}

// StorageConfig holds configuration for BoltStorage initialization
type StorageConfig struct {
	DBPath       string
	KeepSessions int // sessions kept when the store is closed; 0 keeps all
	Compress     bool
	Logger       *zap.Logger
}

// NewBoltStorage opens (or creates) the database at config.DBPath
func NewBoltStorage(config StorageConfig) (*BoltStorage, error) {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := bbolt.Open(config.DBPath, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{sessionsBucket, framesBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("BoltStorage initialized",
		zap.String("db_path", config.DBPath),
		zap.Int("keep_sessions", config.KeepSessions))

	return &BoltStorage{
		db:           db,
		logger:       logger,
		keepSessions: config.KeepSessions,
		compress:     config.Compress,
	}, nil
}

// StartSession registers a new session for the given command line
func (s *BoltStorage) StartSession(commandLine string) (*Session, error) {
	info := SessionInfo{
		ID:          utils.NewSessionID(),
		CommandLine: commandLine,
		Started:     time.Now(),
	}
	info.Updated = info.Started

	err := s.db.Update(func(tx *bbolt.Tx) error {
		if err := putSession(tx, &info); err != nil {
			return err
		}
		_, err := tx.Bucket([]byte(framesBucket)).CreateBucket([]byte(info.ID))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	s.logger.Info("Recording session started",
		zap.String("session", info.ID),
		zap.String("command", commandLine))

	return &Session{store: s, info: info}, nil
}

func putSession(tx *bbolt.Tx, info *SessionInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return tx.Bucket([]byte(sessionsBucket)).Put([]byte(info.ID), data)
}

func getSession(tx *bbolt.Tx, id string) (*SessionInfo, error) {
	data := tx.Bucket([]byte(sessionsBucket)).Get([]byte(id))
	if data == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	var info SessionInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session %s: %w", id, err)
	}
	return &info, nil
}

// appendFrame stores frame as the next entry of session id
func (s *BoltStorage) appendFrame(id string, frame *types.Frame) (*SessionInfo, error) {
	data := []byte(frame.Text)
	compressed := false
	if s.compress {
		var err error
		data, compressed, err = compression.Compress(data)
		if err != nil {
			return nil, fmt.Errorf("failed to compress frame: %w", err)
		}
	}

	var info *SessionInfo
	err := s.db.Update(func(tx *bbolt.Tx) error {
		var err error
		info, err = getSession(tx, id)
		if err != nil {
			return err
		}

		b := tx.Bucket([]byte(framesBucket)).Bucket([]byte(id))
		if b == nil {
			return fmt.Errorf("frames of session %s are missing", id)
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}

		value, err := json.Marshal(storedFrame{
			Seq:        seq,
			Started:    frame.Started,
			Duration:   frame.Duration,
			ExitCode:   frame.ExitCode,
			Data:       data,
			Compressed: compressed,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal frame: %w", err)
		}
		if err := b.Put(seqKey(seq), value); err != nil {
			return err
		}

		info.Frames++
		info.Bytes += int64(len(data))
		info.Updated = time.Now()
		return putSession(tx, info)
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

// ListSessions returns all sessions, newest first
func (s *BoltStorage) ListSessions() ([]*SessionInfo, error) {
	var sessions []*SessionInfo
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(sessionsBucket)).ForEach(func(k, v []byte) error {
			var info SessionInfo
			if err := json.Unmarshal(v, &info); err != nil {
				s.logger.Warn("Skipping unreadable session", zap.ByteString("id", k), zap.Error(err))
				return nil
			}
			sessions = append(sessions, &info)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Started.After(sessions[j].Started)
	})
	return sessions, nil
}

// FindSession resolves a session by a unique ID prefix
func (s *BoltStorage) FindSession(prefix string) (*SessionInfo, error) {
	var matches []*SessionInfo
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(sessionsBucket)).Cursor()
		for k, v := c.Seek([]byte(prefix)); k != nil && strings.HasPrefix(string(k), prefix); k, v = c.Next() {
			var info SessionInfo
			if err := json.Unmarshal(v, &info); err != nil {
				return fmt.Errorf("failed to unmarshal session %s: %w", k, err)
			}
			matches = append(matches, &info)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, prefix)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s matches %d sessions", ErrAmbiguousSession, prefix, len(matches))
	}
}

// Frames returns the recorded frames of a session in recording order
func (s *BoltStorage) Frames(id string) ([]*types.Frame, error) {
	var frames []*types.Frame
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(framesBucket)).Bucket([]byte(id))
		if b == nil {
			return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return b.ForEach(func(k, v []byte) error {
			var sf storedFrame
			if err := json.Unmarshal(v, &sf); err != nil {
				return fmt.Errorf("failed to unmarshal frame: %w", err)
			}
			data, err := compression.Decompress(sf.Data, sf.Compressed)
			if err != nil {
				return fmt.Errorf("failed to decompress frame %d: %w", sf.Seq, err)
			}
			frames = append(frames, &types.Frame{
				Text:     string(data),
				ExitCode: sf.ExitCode,
				Started:  sf.Started,
				Duration: sf.Duration,
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return frames, nil
}

// DeleteSession removes a session and its frames
func (s *BoltStorage) DeleteSession(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return deleteSession(tx, id)
	})
}

func deleteSession(tx *bbolt.Tx, id string) error {
	if err := tx.Bucket([]byte(sessionsBucket)).Delete([]byte(id)); err != nil {
		return err
	}
	err := tx.Bucket([]byte(framesBucket)).DeleteBucket([]byte(id))
	if err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
		return err
	}
	return nil
}

// Prune deletes all but the newest keep sessions and returns how many were removed
func (s *BoltStorage) Prune(keep int) (int, error) {
	if keep < 0 {
		return 0, fmt.Errorf("keep must not be negative, got %d", keep)
	}

	sessions, err := s.ListSessions()
	if err != nil {
		return 0, err
	}
	if len(sessions) <= keep {
		return 0, nil
	}

	stale := sessions[keep:]
	err = s.db.Update(func(tx *bbolt.Tx) error {
		for _, info := range stale {
			if err := deleteSession(tx, info.ID); err != nil {
				return fmt.Errorf("failed to delete session %s: %w", info.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Debug("Pruned sessions", zap.Int("removed", len(stale)), zap.Int("kept", keep))
	return len(stale), nil
}

// Close prunes old sessions when a limit is configured and closes the database
func (s *BoltStorage) Close() error {
	if s.keepSessions > 0 {
		if _, err := s.Prune(s.keepSessions); err != nil {
			s.logger.Warn("Failed to prune sessions", zap.Error(err))
		}
	}
	return s.db.Close()
}

// Session records the frames of one watch run. Consecutive frames with the
// same text and exit code are stored once.
type Session struct {
	mu    sync.Mutex
	store *BoltStorage
	info  SessionInfo
	last  *types.Frame
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.info.ID
}

// Info returns a snapshot of the session metadata
func (s *Session) Info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info
}

// Record stores frame unless it repeats the previously recorded one
func (s *Session) Record(frame *types.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last != nil && frame.SameAs(s.last) {
		return nil
	}

	info, err := s.store.appendFrame(s.info.ID, frame)
	if err != nil {
		return fmt.Errorf("failed to record frame: %w", err)
	}
	s.info = *info
	copied := *frame
	s.last = &copied
	return nil
}
