package store

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"github.com/rustyeddy/performancepro/ledger"
	"github.com/rustyeddy/performancepro/pkg/id"
)

var sessionColumns = []string{"id", "date", "start_time", "end_time", "market", "notes"}

// AddSession stores a session and its tags.
func (s *Store) AddSession(ctx context.Context, sess ledger.Session) (ledger.Session, error) {
	if err := sess.Validate(); err != nil {
		return ledger.Session{}, err
	}
	if sess.ID == "" {
		sess.ID = id.New()
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := s.exec(ctx, tx, s.sq.Insert("sessions").Columns(sessionColumns...).Values(
			sess.ID, utc(sess.Date), utc(sess.StartTime), utc(sess.EndTime), sess.Market, sess.Notes,
		), "add session")
		if err != nil {
			return err
		}
		return s.linkTags(ctx, tx, "session_tags", "session_id", sess.ID, sess.Tags)
	})
	if err != nil {
		return ledger.Session{}, err
	}

	s.logger.Debug("session added", zap.String("id", sess.ID), zap.Time("date", sess.Date))
	return sess, nil
}

func scanSession(r scanner) (ledger.Session, error) {
	var sess ledger.Session
	err := r.Scan(&sess.ID, &sess.Date, &sess.StartTime, &sess.EndTime, &sess.Market, &sess.Notes)
	return sess, err
}

func (s *Store) GetSession(ctx context.Context, sessionID string) (ledger.Session, error) {
	var sess ledger.Session
	err := s.get(ctx, s.db, s.sq.Select(sessionColumns...).From("sessions").Where(squirrel.Eq{"id": sessionID}),
		func(r scanner) error {
			var err error
			sess, err = scanSession(r)
			return err
		})
	if err != nil {
		return ledger.Session{}, s.notFound(err, "session", sessionID)
	}

	tags, err := s.tagsFor(ctx, s.db, "session_tags", "session_id", []string{sess.ID})
	if err != nil {
		return ledger.Session{}, err
	}
	sess.Tags = tags[sess.ID]
	return sess, nil
}

// ListSessions returns every session, most recent first.
func (s *Store) ListSessions(ctx context.Context) ([]ledger.Session, error) {
	rows, err := s.query(ctx, s.db, s.sq.Select(sessionColumns...).From("sessions").
		OrderBy("date DESC", "start_time DESC", "id DESC"), "list sessions")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Session
	var ids []string
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, s.storageErr("scan session", err)
		}
		out = append(out, sess)
		ids = append(ids, sess.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, s.storageErr("list sessions", err)
	}

	tags, err := s.tagsFor(ctx, s.db, "session_tags", "session_id", ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Tags = tags[out[i].ID]
	}
	return out, nil
}
