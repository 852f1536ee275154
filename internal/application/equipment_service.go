package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/gearguard/gearguard-api/internal/domain/entity"
	repo "github.com/gearguard/gearguard-api/internal/domain/repository"
)

var (
	ErrEquipmentNotFound = errors.New("equipment not found")
	ErrDuplicateSerial   = errors.New("serial number already registered")
)

// EquipmentService owns the asset registry. Every write is mirrored into
// Elasticsearch so the fleet is searchable by free text.
type EquipmentService struct {
	Repo    repo.EquipmentRepository
	Logger  *logrus.Logger
	ES      *elasticsearch.Client
	ESIndex string
}

func NewEquipmentService(r repo.EquipmentRepository, logger *logrus.Logger, es *elasticsearch.Client, esIndex string) *EquipmentService {
	return &EquipmentService{Repo: r, Logger: logger, ES: es, ESIndex: esIndex}
}

type CreateEquipmentInput struct {
	Name              string
	SerialNumber      string
	Category          string
	Department        string
	MaintenanceTeamID string
	AssignedTo        string
	Vendor            string
	Cost              float64
	WarrantyExpiry    *time.Time
	Location          string
	Description       string
}

func (s *EquipmentService) Create(ctx context.Context, in CreateEquipmentInput) (*entity.Equipment, error) {
	e := &entity.Equipment{
		Name:              in.Name,
		SerialNumber:      in.SerialNumber,
		Category:          in.Category,
		Department:        in.Department,
		MaintenanceTeamID: in.MaintenanceTeamID,
		AssignedTo:        in.AssignedTo,
		Vendor:            in.Vendor,
		Cost:              in.Cost,
		WarrantyExpiry:    in.WarrantyExpiry,
		Location:          in.Location,
		Description:       in.Description,
	}
	created, err := s.Repo.Create(ctx, e)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateSerial) {
			return nil, ErrDuplicateSerial
		}
		return nil, err
	}
	_ = s.index(ctx, created)
	return created, nil
}

func (s *EquipmentService) Get(ctx context.Context, id string) (*entity.Equipment, error) {
	e, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrEquipmentNotFound
		}
		return nil, err
	}
	return e, nil
}

func (s *EquipmentService) List(ctx context.Context, params repo.FilterEquipmentParams) ([]*entity.Equipment, error) {
	return s.Repo.List(ctx, params)
}

func (s *EquipmentService) Update(ctx context.Context, id string, params repo.UpdateEquipmentParams) (*entity.Equipment, error) {
	e, err := s.Repo.Update(ctx, id, params)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, ErrEquipmentNotFound
		case errors.Is(err, repo.ErrDuplicateSerial):
			return nil, ErrDuplicateSerial
		}
		return nil, err
	}
	_ = s.index(ctx, e)
	return e, nil
}

func (s *EquipmentService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrEquipmentNotFound
		}
		return err
	}
	s.deleteIndexed(ctx, id)
	return nil
}

// Scrap marks the asset as written off. Called when a maintenance request for
// it closes in the scrap stage.
func (s *EquipmentService) Scrap(ctx context.Context, id string) (*entity.Equipment, error) {
	status := entity.EquipmentScrapped
	return s.Update(ctx, id, repo.UpdateEquipmentParams{Status: &status})
}

func (s *EquipmentService) index(ctx context.Context, e *entity.Equipment) error {
	if s.ES == nil || s.ESIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":            e.ID.Hex(),
		"name":          e.Name,
		"serial_number": e.SerialNumber,
		"category":      e.Category,
		"department":    e.Department,
		"vendor":        e.Vendor,
		"location":      e.Location,
		"status":        e.Status,
		"description":   e.Description,
		"updated_at":    e.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: e.ID.Hex(), Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("equipment_id", e.ID.Hex()).Warn("es index failed")
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.Logger.WithField("status", res.Status()).WithField("equipment_id", e.ID.Hex()).Warn("es index response error")
	}
	return nil
}

func (s *EquipmentService) deleteIndexed(ctx context.Context, id string) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: id}
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("equipment_id", id).Warn("es delete failed")
		return
	}
	_ = res.Body.Close()
}

// Search performs a multi_match query over the indexed asset fields.
func (s *EquipmentService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "serial_number^2", "category", "vendor", "location", "description"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
