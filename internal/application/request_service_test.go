package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/gearguard/gearguard-api/internal/domain/entity"
	repo "github.com/gearguard/gearguard-api/internal/domain/repository"
)

type fakeEquipmentRepo struct {
	items map[string]*entity.Equipment
}

func newFakeEquipmentRepo() *fakeEquipmentRepo {
	return &fakeEquipmentRepo{items: map[string]*entity.Equipment{}}
}

func (f *fakeEquipmentRepo) Create(_ context.Context, e *entity.Equipment) (*entity.Equipment, error) {
	for _, it := range f.items {
		if it.SerialNumber == e.SerialNumber {
			return nil, repo.ErrDuplicateSerial
		}
	}
	e.ID = bson.NewObjectID()
	if e.Status == "" {
		e.Status = entity.EquipmentActive
	}
	f.items[e.ID.Hex()] = e
	return e, nil
}

func (f *fakeEquipmentRepo) GetByID(_ context.Context, id string) (*entity.Equipment, error) {
	if e, ok := f.items[id]; ok {
		return e, nil
	}
	return nil, repo.ErrNotFound
}

func (f *fakeEquipmentRepo) List(_ context.Context, _ repo.FilterEquipmentParams) ([]*entity.Equipment, error) {
	out := make([]*entity.Equipment, 0, len(f.items))
	for _, e := range f.items {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEquipmentRepo) Update(ctx context.Context, id string, params repo.UpdateEquipmentParams) (*entity.Equipment, error) {
	e, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if params.Status != nil {
		e.Status = *params.Status
	}
	if params.Name != nil {
		e.Name = *params.Name
	}
	return e, nil
}

func (f *fakeEquipmentRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeEquipmentRepo) CountByStatus(context.Context) ([]repo.BucketCount, error) {
	byStatus := map[string]int64{}
	for _, e := range f.items {
		byStatus[e.Status]++
	}
	var out []repo.BucketCount
	for k, v := range byStatus {
		out = append(out, repo.BucketCount{Key: k, Count: v})
	}
	return out, nil
}

type fakeRequestRepo struct {
	items map[string]*entity.MaintenanceRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{items: map[string]*entity.MaintenanceRequest{}}
}

func (f *fakeRequestRepo) Create(_ context.Context, r *entity.MaintenanceRequest) (*entity.MaintenanceRequest, error) {
	r.ID = bson.NewObjectID()
	if r.Stage == "" {
		r.Stage = entity.StageNew
	}
	f.items[r.ID.Hex()] = r
	return r, nil
}

func (f *fakeRequestRepo) GetByID(_ context.Context, id string) (*entity.MaintenanceRequest, error) {
	if r, ok := f.items[id]; ok {
		return r, nil
	}
	return nil, repo.ErrNotFound
}

func (f *fakeRequestRepo) List(_ context.Context, _ repo.FilterRequestsParams) ([]*entity.MaintenanceRequest, error) {
	out := make([]*entity.MaintenanceRequest, 0, len(f.items))
	for _, r := range f.items {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRequestRepo) Update(ctx context.Context, id string, params repo.UpdateRequestParams) (*entity.MaintenanceRequest, error) {
	r, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if params.Subject != nil {
		r.Subject = *params.Subject
	}
	if params.AssignedTo != nil {
		r.AssignedTo = *params.AssignedTo
	}
	return r, nil
}

func (f *fakeRequestRepo) SetStage(ctx context.Context, id, stage string, closedAt *time.Time) (*entity.MaintenanceRequest, error) {
	r, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.Stage = stage
	r.ClosedAt = closedAt
	return r, nil
}

func (f *fakeRequestRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeRequestRepo) ListScheduledBetween(_ context.Context, from, to time.Time) ([]*entity.MaintenanceRequest, error) {
	var out []*entity.MaintenanceRequest
	for _, r := range f.items {
		if r.ScheduledDate != nil && !r.ScheduledDate.Before(from) && r.ScheduledDate.Before(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) CountByStage(context.Context) ([]repo.BucketCount, error) {
	counts := map[string]int64{}
	for _, r := range f.items {
		counts[r.Stage]++
	}
	var out []repo.BucketCount
	for k, v := range counts {
		out = append(out, repo.BucketCount{Key: k, Count: v})
	}
	return out, nil
}

func (f *fakeRequestRepo) CountByType(context.Context) ([]repo.BucketCount, error) {
	counts := map[string]int64{}
	for _, r := range f.items {
		counts[r.RequestType]++
	}
	var out []repo.BucketCount
	for k, v := range counts {
		out = append(out, repo.BucketCount{Key: k, Count: v})
	}
	return out, nil
}

func (f *fakeRequestRepo) CountOpenByTeam(context.Context) ([]repo.BucketCount, error) {
	counts := map[string]int64{}
	for _, r := range f.items {
		if !r.Closed() {
			counts[r.TeamID]++
		}
	}
	var out []repo.BucketCount
	for k, v := range counts {
		out = append(out, repo.BucketCount{Key: k, Count: v})
	}
	return out, nil
}

func (f *fakeRequestRepo) CountOverdue(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, r := range f.items {
		if r.Overdue(now) {
			n++
		}
	}
	return n, nil
}

func newTestRequestService(t *testing.T) (*RequestService, *fakeRequestRepo, *fakeEquipmentRepo, *entity.Equipment) {
	t.Helper()
	equipRepo := newFakeEquipmentRepo()
	reqRepo := newFakeRequestRepo()
	equipSvc := NewEquipmentService(equipRepo, quietLogger(), nil, "")
	svc := NewRequestService(reqRepo, equipSvc, newFakeUserRepo(), newFakeSender(), quietLogger())

	eq, err := equipRepo.Create(context.Background(), &entity.Equipment{Name: "Lathe", SerialNumber: "L-1"})
	require.NoError(t, err)
	return svc, reqRepo, equipRepo, eq
}

func TestCreateRequestDefaults(t *testing.T) {
	svc, _, _, eq := newTestRequestService(t)

	created, err := svc.Create(context.Background(), CreateRequestInput{
		Subject:     "Belt replacement",
		EquipmentID: eq.ID.Hex(),
		RequestType: entity.TypeCorrective,
	})
	require.NoError(t, err)
	require.Equal(t, entity.StageNew, created.Stage)
}

func TestCreateRequestUnknownEquipment(t *testing.T) {
	svc, _, _, _ := newTestRequestService(t)

	_, err := svc.Create(context.Background(), CreateRequestInput{
		Subject:     "Belt replacement",
		EquipmentID: bson.NewObjectID().Hex(),
		RequestType: entity.TypeCorrective,
	})
	require.ErrorIs(t, err, ErrEquipmentsNeeded)
}

func TestMoveStageHappyPath(t *testing.T) {
	svc, _, _, eq := newTestRequestService(t)

	created, err := svc.Create(context.Background(), CreateRequestInput{
		Subject:     "Noise on spindle",
		EquipmentID: eq.ID.Hex(),
		RequestType: entity.TypeCorrective,
	})
	require.NoError(t, err)

	moved, err := svc.MoveStage(context.Background(), created.ID.Hex(), entity.StageInProgress)
	require.NoError(t, err)
	require.Equal(t, entity.StageInProgress, moved.Stage)
	require.Nil(t, moved.ClosedAt)

	done, err := svc.MoveStage(context.Background(), created.ID.Hex(), entity.StageRepaired)
	require.NoError(t, err)
	require.Equal(t, entity.StageRepaired, done.Stage)
	require.NotNil(t, done.ClosedAt)
}

func TestMoveStageRejectsIllegalTransitions(t *testing.T) {
	svc, _, _, eq := newTestRequestService(t)

	created, err := svc.Create(context.Background(), CreateRequestInput{
		Subject:     "Skipped steps",
		EquipmentID: eq.ID.Hex(),
		RequestType: entity.TypeCorrective,
	})
	require.NoError(t, err)

	// Straight to a terminal stage is not allowed.
	_, err = svc.MoveStage(context.Background(), created.ID.Hex(), entity.StageRepaired)
	require.ErrorIs(t, err, ErrBadStageMove)

	_, err = svc.MoveStage(context.Background(), created.ID.Hex(), "bogus")
	require.ErrorIs(t, err, ErrUnknownStage)

	// Terminal stages are final.
	_, err = svc.MoveStage(context.Background(), created.ID.Hex(), entity.StageInProgress)
	require.NoError(t, err)
	_, err = svc.MoveStage(context.Background(), created.ID.Hex(), entity.StageScrap)
	require.NoError(t, err)
	_, err = svc.MoveStage(context.Background(), created.ID.Hex(), entity.StageInProgress)
	require.ErrorIs(t, err, ErrBadStageMove)
}

func TestScrapStageScrapsEquipment(t *testing.T) {
	svc, _, equipRepo, eq := newTestRequestService(t)

	created, err := svc.Create(context.Background(), CreateRequestInput{
		Subject:     "Beyond repair",
		EquipmentID: eq.ID.Hex(),
		RequestType: entity.TypeCorrective,
	})
	require.NoError(t, err)

	_, err = svc.MoveStage(context.Background(), created.ID.Hex(), entity.StageInProgress)
	require.NoError(t, err)
	_, err = svc.MoveStage(context.Background(), created.ID.Hex(), entity.StageScrap)
	require.NoError(t, err)

	got, err := equipRepo.GetByID(context.Background(), eq.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, entity.EquipmentScrapped, got.Status)
}

func TestUpdateRejectedWhenClosed(t *testing.T) {
	svc, _, _, eq := newTestRequestService(t)

	created, err := svc.Create(context.Background(), CreateRequestInput{
		Subject:     "One and done",
		EquipmentID: eq.ID.Hex(),
		RequestType: entity.TypePreventive,
	})
	require.NoError(t, err)

	_, err = svc.MoveStage(context.Background(), created.ID.Hex(), entity.StageInProgress)
	require.NoError(t, err)
	_, err = svc.MoveStage(context.Background(), created.ID.Hex(), entity.StageRepaired)
	require.NoError(t, err)

	subject := "edited"
	_, err = svc.Update(context.Background(), created.ID.Hex(), repo.UpdateRequestParams{Subject: &subject})
	require.ErrorIs(t, err, ErrRequestClosed)
}

func TestDashboardStats(t *testing.T) {
	svc, reqRepo, equipRepo, eq := newTestRequestService(t)
	dash := NewDashboardService(reqRepo, equipRepo)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), CreateRequestInput{
			Subject:     "Work item",
			EquipmentID: eq.ID.Hex(),
			TeamID:      "team-a",
			RequestType: entity.TypePreventive,
		})
		require.NoError(t, err)
	}

	stats, err := dash.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(3), stats.RequestsByStage[entity.StageNew])
	require.Equal(t, int64(3), stats.RequestsByType[entity.TypePreventive])
	require.Equal(t, int64(3), stats.OpenByTeam["team-a"])
	require.Equal(t, int64(1), stats.EquipmentByStatus[entity.EquipmentActive])
	require.Zero(t, stats.OverdueCount)
}
