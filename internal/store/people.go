package store

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/jarosser06/mosaic/internal/apperr"
)

// CreatePersonParams are the caller-supplied fields for a new person.
type CreatePersonParams struct {
	FullName       string
	Email          *string
	Phone          *string
	LinkedinURL    *string
	Company        *string
	Title          *string
	Notes          *string
	AdditionalInfo JSONObject
	IsStakeholder  bool
	Tags           Tags
}

// CreatePerson inserts a person and returns the stored row.
func (s *Store) CreatePerson(ctx context.Context, p CreatePersonParams) (*Person, error) {
	if p.FullName == "" {
		return nil, apperr.New(apperr.InvalidArgument, "person full_name is required")
	}

	now := s.nowUTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO people (full_name, email, phone, linkedin_url, company, title,
			notes, additional_info, is_stakeholder, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.FullName, p.Email, p.Phone, p.LinkedinURL, p.Company, p.Title,
		p.Notes, p.AdditionalInfo, p.IsStakeholder, p.Tags.Normalize(), now, now)
	if err != nil {
		return nil, translateErr("create person", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, translateErr("create person", err)
	}
	return s.GetPerson(ctx, id)
}

// GetPerson fetches one person by id.
func (s *Store) GetPerson(ctx context.Context, id int64) (*Person, error) {
	var p Person
	err := s.db.GetContext(ctx, &p, `SELECT * FROM people WHERE id = ?`, id)
	if err != nil {
		return nil, translateErr("get person", err)
	}
	return &p, nil
}

// UpdatePersonParams carry optional field updates; nil means "leave
// unchanged".
type UpdatePersonParams struct {
	FullName       *string
	Email          *string
	Phone          *string
	LinkedinURL    *string
	Company        *string
	Title          *string
	Notes          *string
	AdditionalInfo JSONObject
	IsStakeholder  *bool
	Tags           *Tags
}

// UpdatePerson applies the given changes and returns the updated row.
func (s *Store) UpdatePerson(ctx context.Context, id int64, p UpdatePersonParams) (*Person, error) {
	per, err := s.GetPerson(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.FullName != nil {
		if *p.FullName == "" {
			return nil, apperr.New(apperr.InvalidArgument, "person full_name cannot be empty")
		}
		per.FullName = *p.FullName
	}
	if p.Email != nil {
		per.Email = p.Email
	}
	if p.Phone != nil {
		per.Phone = p.Phone
	}
	if p.LinkedinURL != nil {
		per.LinkedinURL = p.LinkedinURL
	}
	if p.Company != nil {
		per.Company = p.Company
	}
	if p.Title != nil {
		per.Title = p.Title
	}
	if p.Notes != nil {
		per.Notes = p.Notes
	}
	if p.AdditionalInfo != nil {
		per.AdditionalInfo = p.AdditionalInfo
	}
	if p.IsStakeholder != nil {
		per.IsStakeholder = *p.IsStakeholder
	}
	if p.Tags != nil {
		per.Tags = p.Tags.Normalize()
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE people SET full_name = ?, email = ?, phone = ?, linkedin_url = ?,
			company = ?, title = ?, notes = ?, additional_info = ?,
			is_stakeholder = ?, tags = ?, updated_at = ?
		WHERE id = ?`,
		per.FullName, per.Email, per.Phone, per.LinkedinURL,
		per.Company, per.Title, per.Notes, per.AdditionalInfo,
		per.IsStakeholder, per.Tags, s.nowUTC(), id)
	if err != nil {
		return nil, translateErr("update person", err)
	}
	return s.GetPerson(ctx, id)
}

// AddEmploymentParams link a person to a client for a period. A nil end
// date marks the engagement as current.
type AddEmploymentParams struct {
	PersonID  int64
	ClientID  int64
	Role      string
	StartDate string
	EndDate   *string
}

// AddEmployment records an employment span. Opening a second current
// engagement for the same person and client closes the existing one as
// of the new start date.
func (s *Store) AddEmployment(ctx context.Context, p AddEmploymentParams) (*EmploymentHistory, error) {
	if p.Role == "" {
		return nil, apperr.New(apperr.InvalidArgument, "employment role is required")
	}
	if !validDate(p.StartDate) {
		return nil, apperr.Newf(apperr.InvalidArgument, "start date %q: want YYYY-MM-DD", p.StartDate)
	}
	if p.EndDate != nil && !validDate(*p.EndDate) {
		return nil, apperr.Newf(apperr.InvalidArgument, "end date %q: want YYYY-MM-DD", *p.EndDate)
	}

	var id int64
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		now := s.nowUTC()
		if p.EndDate == nil {
			_, err := tx.ExecContext(ctx, `
				UPDATE employment_history SET end_date = ?, updated_at = ?
				WHERE person_id = ? AND client_id = ? AND end_date IS NULL`,
				p.StartDate, now, p.PersonID, p.ClientID)
			if err != nil {
				return translateErr("close current employment", err)
			}
		}
		res, err := tx.ExecContext(ctx, `
			INSERT INTO employment_history (person_id, client_id, role, start_date, end_date, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.PersonID, p.ClientID, p.Role, p.StartDate, p.EndDate, now, now)
		if err != nil {
			return translateErr("add employment", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return translateErr("add employment", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var eh EmploymentHistory
	if err := s.db.GetContext(ctx, &eh, `SELECT * FROM employment_history WHERE id = ?`, id); err != nil {
		return nil, translateErr("get employment", err)
	}
	return &eh, nil
}

// EmploymentFor lists a person's employment spans, most recent start
// first.
func (s *Store) EmploymentFor(ctx context.Context, personID int64) ([]EmploymentHistory, error) {
	var out []EmploymentHistory
	err := s.db.SelectContext(ctx, &out, `
		SELECT * FROM employment_history WHERE person_id = ?
		ORDER BY start_date DESC, id DESC`, personID)
	if err != nil {
		return nil, translateErr("list employment", err)
	}
	return out, nil
}
