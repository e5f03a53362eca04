package employee

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Column names of the HR roster export.
const (
	seedKeyName        = "Nome"
	seedKeyMatricula   = "Matricula"
	seedKeyCostCenter  = "Centro Custo"
	seedKeyAdmission   = "Admissao"
	seedKeyTermination = "Demissao"
	seedKeyBranch      = "Filial"
)

type seedRecord map[string]any

// Seed upserts the roster file by matricula. Master fields are overwritten, opt-out flags are kept.
func (s *service) Seed(ctx context.Context, path string) (SeedResult, error) {
	s.logger.Info("seed employees started", zap.String("path", path))

	raw, err := os.ReadFile(path)
	if err != nil {
		return SeedResult{}, fmt.Errorf("read seed file: %w", err)
	}

	var records []seedRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return SeedResult{}, fmt.Errorf("decode seed file: %w", err)
	}

	var result SeedResult
	for i, rec := range records {
		empl, err := rec.toEmployee()
		if err != nil {
			s.logger.Warn("seed record skipped", zap.Int("index", i), zap.Error(err))
			result.Skipped++
			continue
		}

		created, err := s.upsertByMatricula(ctx, empl)
		if err != nil {
			return result, fmt.Errorf("seed record %d (%s): %w", i, empl.Matricula, err)
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	s.invalidateOptions(ctx)
	s.logger.Info("seed employees finished",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

func (s *service) upsertByMatricula(ctx context.Context, in *Employee) (bool, error) {
	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		current, err := qtx.FindByMatricula(ctx, in.Matricula)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			created = true
			return qtx.Create(ctx, in)
		}
		if err != nil {
			return err
		}

		current.Name = in.Name
		current.CostCenter = in.CostCenter
		current.Branch = in.Branch
		current.AdmissionDate = in.AdmissionDate
		current.TerminationDate = in.TerminationDate
		return qtx.Update(ctx, current)
	})
	return created, mapRepositoryError(err)
}

func (r seedRecord) toEmployee() (*Employee, error) {
	matricula := r.text(seedKeyMatricula)
	name := normalizeName(r.text(seedKeyName))
	if matricula == "" || name == "" {
		return nil, fmt.Errorf("missing %s or %s", seedKeyMatricula, seedKeyName)
	}

	admission, err := parseDate(r.text(seedKeyAdmission))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", seedKeyAdmission, err)
	}

	var termination *time.Time
	if v := r.text(seedKeyTermination); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", seedKeyTermination, err)
		}
		termination = &t
	}
	if err := validateDates(admission, termination); err != nil {
		return nil, err
	}

	return &Employee{
		Matricula:       matricula,
		Name:            name,
		CostCenter:      r.text(seedKeyCostCenter),
		Branch:          r.text(seedKeyBranch),
		AdmissionDate:   admission,
		TerminationDate: termination,
	}, nil
}

// text reads a cell that the export may have written as a string or as a number.
func (r seedRecord) text(key string) string {
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
