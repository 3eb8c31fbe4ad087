package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/studentdesk/internal/dependencies/clock"
	"github.com/mcoot/studentdesk/internal/model"
	"github.com/mcoot/studentdesk/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	timeout := cfg.DialTimeout
	if timeout == 0 {
		timeout = DefaultConfig().DialTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.MaxTxRetries <= 0 {
		cfg.MaxTxRetries = DefaultConfig().MaxTxRetries
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

// CreateUser writes the user record first and then claims the username with
// SETNX. The index therefore never points at a missing record, and the SETNX
// is the single arbiter between concurrent registrations.
func (s *Storage) CreateUser(ctx context.Context, username, passwordHash string) (*model.User, error) {
	id, err := s.client.Incr(ctx, userSeqKey()).Result()
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           model.UserID(id),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    s.cfg.Clock.Now(),
	}

	data, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}

	if err := s.client.Set(ctx, userKey(user.ID), data, 0).Err(); err != nil {
		return nil, err
	}

	claimed, err := s.client.SetNX(ctx, usernameIndexKey(username), id, 0).Result()
	if err != nil || !claimed {
		_ = s.client.Del(ctx, userKey(user.ID)).Err()
		if err != nil {
			return nil, err
		}
		return nil, model.ErrUsernameExists
	}

	return user, nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	data, err := s.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	// Look up user ID from username index
	id, err := s.client.Get(ctx, usernameIndexKey(username)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	return s.GetUser(ctx, model.UserID(id))
}

// Student operations

func (s *Storage) CreateStudent(ctx context.Context, fields model.StudentFields) (*model.Student, error) {
	id, err := s.client.Incr(ctx, studentSeqKey()).Result()
	if err != nil {
		return nil, err
	}

	student := &model.Student{
		ID:            model.StudentID(id),
		StudentFields: fields,
	}

	data, err := json.Marshal(student)
	if err != nil {
		return nil, err
	}

	// MULTI/EXEC so the record and its index entry appear together
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, studentKey(student.ID), data, 0)
		pipe.ZAdd(ctx, studentsIndexKey(), redis.Z{Score: float64(id), Member: id})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return student, nil
}

func (s *Storage) ListStudents(ctx context.Context) ([]*model.Student, error) {
	ids, err := s.client.ZRange(ctx, studentsIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	students := make([]*model.Student, 0, len(ids))
	if len(ids) == 0 {
		return students, nil
	}

	keys := make([]string, len(ids))
	for i, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt student index entry %q: %w", raw, err)
		}
		keys[i] = studentKey(model.StudentID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	for _, v := range values {
		// Deleted between ZRANGE and MGET
		str, ok := v.(string)
		if !ok {
			continue
		}
		var student model.Student
		if err := json.Unmarshal([]byte(str), &student); err != nil {
			return nil, err
		}
		students = append(students, &student)
	}

	return students, nil
}

func (s *Storage) GetStudent(ctx context.Context, id model.StudentID) (*model.Student, error) {
	data, err := s.client.Get(ctx, studentKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrStudentNotFound
		}
		return nil, err
	}

	var student model.Student
	if err := json.Unmarshal(data, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

// UpdateStudent replaces the fields of an existing student. The existence
// check and the write run under WATCH so a concurrent delete cannot be
// resurrected by a late update.
func (s *Storage) UpdateStudent(ctx context.Context, id model.StudentID, fields model.StudentFields) (*model.Student, error) {
	key := studentKey(id)
	student := &model.Student{ID: id, StudentFields: fields}

	data, err := json.Marshal(student)
	if err != nil {
		return nil, err
	}

	update := func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if exists == 0 {
			return model.ErrStudentNotFound
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}

	for i := 0; i < s.cfg.MaxTxRetries; i++ {
		err = s.client.Watch(ctx, update, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return student, nil
	}

	return nil, fmt.Errorf("update student %d: %w", id, err)
}

func (s *Storage) DeleteStudent(ctx context.Context, id model.StudentID) error {
	var deleted *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		deleted = pipe.Del(ctx, studentKey(id))
		pipe.ZRem(ctx, studentsIndexKey(), int64(id))
		return nil
	})
	if err != nil {
		return err
	}

	if deleted.Val() == 0 {
		return model.ErrStudentNotFound
	}
	return nil
}
