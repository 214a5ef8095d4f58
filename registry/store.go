package registry

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cbillows/launchd-me/errors"
)

// Store handles persistence of job records
type Store struct {
	db *sql.DB
}

// NewStore creates a new registry store
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create inserts a new job record with status unregistered.
// Fails with ErrDuplicateLabel if the label is already registered.
func (s *Store) Create(record *JobRecord) error {
	query := `
		INSERT INTO jobs (
			label, script_path, descriptor_path, descriptor_content,
			schedule_type, schedule_value, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	if record.Status == "" {
		record.Status = StatusUnregistered
	}
	now := time.Now().UTC()

	result, err := s.db.Exec(query,
		record.Label,
		record.ScriptPath,
		record.DescriptorPath,
		record.DescriptorContent,
		record.ScheduleType,
		record.ScheduleValue,
		string(record.Status),
		now.Format(time.RFC3339),
		now.Format(time.RFC3339),
	)
	if err != nil {
		// The UNIQUE constraint on label is the duplicate check; the driver
		// gives us no typed error to match on.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return errors.Wrapf(errors.ErrDuplicateLabel, "label %s", record.Label)
		}
		return errors.Wrap(err, "failed to create job record")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "failed to get job record id")
	}
	record.ID = id
	record.CreatedAt = now
	record.UpdatedAt = now

	return nil
}

// Get retrieves a job record by label.
// Fails with ErrNotFound if the label is not registered.
func (s *Store) Get(label string) (*JobRecord, error) {
	query := `
		SELECT id, label, script_path, descriptor_path, descriptor_content,
		       schedule_type, schedule_value, status, created_at, updated_at
		FROM jobs
		WHERE label = ?
	`

	record, err := scanJob(s.db.QueryRow(query, label))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("no job with label %q", label)
		}
		return nil, errors.Wrapf(err, "failed to get job %s", label)
	}
	return record, nil
}

// List returns all job records in creation order.
func (s *Store) List() ([]*JobRecord, error) {
	query := `
		SELECT id, label, script_path, descriptor_path, descriptor_content,
		       schedule_type, schedule_value, status, created_at, updated_at
		FROM jobs
		ORDER BY id ASC
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list jobs")
	}
	defer rows.Close()

	var records []*JobRecord
	for rows.Next() {
		record, err := scanJob(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan job record")
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// UpdateStatus sets a job's registration status. Idempotent: setting the
// current status again succeeds. Fails with ErrNotFound for unknown labels.
func (s *Store) UpdateStatus(label string, status Status) error {
	query := `UPDATE jobs SET status = ?, updated_at = ? WHERE label = ?`

	result, err := s.db.Exec(query, string(status), time.Now().UTC().Format(time.RFC3339), label)
	if err != nil {
		return errors.Wrapf(err, "failed to update status for %s", label)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return errors.NewNotFoundError("no job with label %q", label)
	}

	return nil
}

// Remove deletes a job record. Fails with ErrNotFound if the label is not
// registered; the registry is left unchanged in that case.
//
// Callers must run the adapter's teardown before removing the record,
// otherwise the registry and launchd state diverge.
func (s *Store) Remove(label string) error {
	result, err := s.db.Exec(`DELETE FROM jobs WHERE label = ?`, label)
	if err != nil {
		return errors.Wrapf(err, "failed to remove job %s", label)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return errors.NewNotFoundError("no job with label %q", label)
	}

	return nil
}

// Count returns the number of registered jobs.
func (s *Store) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM jobs`).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count jobs")
	}
	return count, nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanJob
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row scanner) (*JobRecord, error) {
	var record JobRecord
	var status, createdAt, updatedAt string

	err := row.Scan(
		&record.ID,
		&record.Label,
		&record.ScriptPath,
		&record.DescriptorPath,
		&record.DescriptorContent,
		&record.ScheduleType,
		&record.ScheduleValue,
		&status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	record.Status = Status(status)

	record.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse created_at for job %s", record.Label)
	}
	record.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse updated_at for job %s", record.Label)
	}

	return &record, nil
}

// RecordEvent appends an entry to the installation audit trail.
func (s *Store) RecordEvent(label, eventType string, success bool, detail string) error {
	query := `
		INSERT INTO installation_events (id, job_label, event_type, success, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	successInt := 0
	if success {
		successInt = 1
	}

	_, err := s.db.Exec(query,
		uuid.NewString(),
		label,
		eventType,
		successInt,
		detail,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return errors.Wrapf(err, "failed to record %s event for %s", eventType, label)
	}
	return nil
}

// ListEvents returns the audit trail for a label, oldest first.
func (s *Store) ListEvents(label string) ([]*InstallationEvent, error) {
	query := `
		SELECT id, job_label, event_type, success, detail, created_at
		FROM installation_events
		WHERE job_label = ?
		ORDER BY rowid ASC
	`

	rows, err := s.db.Query(query, label)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list events for %s", label)
	}
	defer rows.Close()

	var events []*InstallationEvent
	for rows.Next() {
		var event InstallationEvent
		var success int
		var detail sql.NullString
		var createdAt string

		if err := rows.Scan(&event.ID, &event.JobLabel, &event.EventType, &success, &detail, &createdAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan installation event")
		}
		event.Success = success == 1
		if detail.Valid {
			event.Detail = detail.String
		}
		event.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse created_at for event %s", event.ID)
		}

		events = append(events, &event)
	}

	return events, rows.Err()
}
