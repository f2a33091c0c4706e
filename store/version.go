package store

import (
	"context"
	"database/sql"

	"github.com/Masterminds/semver/v3"
	"github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"github.com/rustyeddy/performancepro/pkg/errors"
)

// SchemaVersion is the database layout this build writes. A database
// stamped with a different major version is refused; older minor and patch
// versions are upgraded in place since every schema change within a major
// version is additive.
const SchemaVersion = "1.0.0"

const schemaVersionKey = "schema_version"

func (s *Store) checkSchemaVersion(ctx context.Context) error {
	var stored string
	err := s.get(ctx, s.db, s.sq.Select("value").From("meta").Where(squirrel.Eq{"key": schemaVersionKey}),
		func(r scanner) error { return r.Scan(&stored) })
	if errors.Is(err, sql.ErrNoRows) {
		_, err = s.exec(ctx, s.db, s.sq.Insert("meta").Columns("key", "value").
			Values(schemaVersionKey, SchemaVersion), "stamp schema version")
		return err
	}
	if err != nil {
		return s.storageErr("read schema version", err)
	}

	upgrade, err := compatibleSchema(stored, SchemaVersion)
	if err != nil {
		return err
	}
	if !upgrade {
		return nil
	}

	_, err = s.exec(ctx, s.db, s.sq.Update("meta").Set("value", SchemaVersion).
		Where(squirrel.Eq{"key": schemaVersionKey}), "stamp schema version")
	if err == nil {
		s.logger.Info("database schema upgraded", zap.String("from", stored), zap.String("to", SchemaVersion))
	}
	return err
}

// compatibleSchema reports whether a database at version stored can be used
// by a build at version current, and whether its stamp needs raising.
func compatibleSchema(stored, current string) (upgrade bool, err error) {
	sv, err := semver.NewVersion(stored)
	if err != nil {
		return false, errors.Wrapf(errors.ErrCodeStorage, err, "invalid schema version %q", stored)
	}
	cv, err := semver.NewVersion(current)
	if err != nil {
		return false, errors.Wrapf(errors.ErrCodeStorage, err, "invalid schema version %q", current)
	}

	if sv.Major() != cv.Major() {
		return false, errors.Newf(errors.ErrCodeStorage,
			"database schema %s is not compatible with %s (major version differs)", stored, current)
	}
	return sv.LessThan(cv), nil
}
