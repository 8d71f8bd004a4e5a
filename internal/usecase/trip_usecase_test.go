package usecase_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tripstamp-microservice/internal/domain"
	"github.com/tripstamp-microservice/internal/pkg/errors"
	"github.com/tripstamp-microservice/internal/usecase"
)

func newTripFixture() (*usecase.TripUseCase, *MockTripStoreRepository, *usecase.Session) {
	storeRepo := new(MockTripStoreRepository)
	uc := usecase.NewTripUseCase(storeRepo, zap.NewNop())
	sess := usecase.NewSession("test-session")
	return uc, storeRepo, sess
}

// populateRoute наполняет сессию активным маршрутом Paris-Rome
func populateRoute(t *testing.T, sess *usecase.Session) {
	t.Helper()
	token := sess.BeginResolve("Paris, Rome")
	applied := sess.ApplyResolution(token,
		[]domain.Coordinate{
			{Name: "Paris", Lat: 48.8566, Lng: 2.3522},
			{Name: "Rome", Lat: 41.9028, Lng: 12.4964},
		},
		[]string{},
		[]domain.Stamp{
			domain.NewDefaultStamp("Paris", 0, time.Now()),
			domain.NewDefaultStamp("Rome", 1, time.Now()),
		},
		"Found 2 places.")
	require.True(t, applied)
}

func TestTripSave_ThenLoadRoundTrip(t *testing.T) {
	uc, storeRepo, sess := newTripFixture()
	storeRepo.On("GetTrips", mock.Anything, "test-session").Return([]domain.SavedTrip{}, nil)
	storeRepo.On("PutTrips", mock.Anything, "test-session", mock.Anything).Return(nil)

	populateRoute(t, sess)
	savedRoute, savedStyle := sess.Snapshot()

	saveResp, err := uc.Save(context.Background(), sess, "Euro Trip")
	require.NoError(t, err)
	assert.Empty(t, saveResp.Warning)
	assert.NotEmpty(t, saveResp.Trip.ID)
	assert.Equal(t, "Euro Trip", saveResp.Trip.Name)
	assert.Equal(t, "Paris, Rome", saveResp.Trip.Locations)

	// Затираем активное состояние и грузим сохраненное обратно
	sess.ClearRoute()

	loadResp, err := uc.Load(context.Background(), sess, saveResp.Trip.ID)
	require.NoError(t, err)
	assert.Equal(t, savedRoute.Coordinates, loadResp.Route.Coordinates)
	assert.Equal(t, savedRoute.Stamps, loadResp.Route.Stamps)
	assert.Equal(t, []string{}, loadResp.Route.MissingLocations)
	assert.Equal(t, savedStyle, loadResp.Style)
	assert.Equal(t, "Loaded \"Euro Trip\".", loadResp.Route.Status)
	assert.Equal(t, "Paris, Rome", sess.RawLocations())
}

func TestTripSave_SnapshotIsIndependent(t *testing.T) {
	uc, storeRepo, sess := newTripFixture()
	storeRepo.On("GetTrips", mock.Anything, mock.Anything).Return([]domain.SavedTrip{}, nil)
	storeRepo.On("PutTrips", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	populateRoute(t, sess)

	saveResp, err := uc.Save(context.Background(), sess, "Euro Trip")
	require.NoError(t, err)

	// Дальнейшие мутации активного маршрута не протекают в сохраненное
	stampID := saveResp.Trip.Stamps[0].ID
	require.True(t, sess.SetStampImage(stampID, "data:image/png;base64,AAAA", "retro"))

	trip, ok := sess.FindTrip(saveResp.Trip.ID)
	require.True(t, ok)
	assert.Empty(t, trip.Stamps[0].ImageURL)
}

func TestTripSave_StoreFailureKeepsInMemory(t *testing.T) {
	uc, storeRepo, sess := newTripFixture()
	storeRepo.On("GetTrips", mock.Anything, mock.Anything).Return([]domain.SavedTrip{}, nil)
	storeRepo.On("PutTrips", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.ErrStorageWriteFailed)

	populateRoute(t, sess)

	resp, err := uc.Save(context.Background(), sess, "Euro Trip")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Warning)

	// Поездка остается доступной в рамках сессии
	list, err := uc.List(context.Background(), sess)
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "Euro Trip", list.Trips[0].Name)
}

func TestTripList_MostRecentFirst(t *testing.T) {
	uc, storeRepo, sess := newTripFixture()
	storeRepo.On("GetTrips", mock.Anything, mock.Anything).Return([]domain.SavedTrip{}, nil)
	storeRepo.On("PutTrips", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	populateRoute(t, sess)

	for _, name := range []string{"First", "Second", "Third"} {
		_, err := uc.Save(context.Background(), sess, name)
		require.NoError(t, err)
	}

	list, err := uc.List(context.Background(), sess)
	require.NoError(t, err)
	require.Equal(t, 3, list.Total)
	assert.Equal(t, "Third", list.Trips[0].Name)
	assert.Equal(t, "Second", list.Trips[1].Name)
	assert.Equal(t, "First", list.Trips[2].Name)
}

func TestTripLoad_NotFound(t *testing.T) {
	uc, storeRepo, sess := newTripFixture()
	storeRepo.On("GetTrips", mock.Anything, mock.Anything).Return([]domain.SavedTrip{}, nil)

	_, err := uc.Load(context.Background(), sess, "missing-id")
	assert.ErrorIs(t, err, errors.ErrTripNotFound)
}

func TestTripLoad_LegacyStyleDefaults(t *testing.T) {
	uc, storeRepo, sess := newTripFixture()
	legacy := domain.SavedTrip{
		ID:          "legacy-1",
		Name:        "Old Trip",
		Date:        time.Now().UnixMilli(),
		Locations:   "Paris",
		Coordinates: []domain.Coordinate{{Name: "Paris", Lat: 48.8566, Lng: 2.3522}},
		Stamps:      []domain.Stamp{{ID: "s1", Name: "Paris", Color: "red"}},
		// Сохранено до поддержки стилей
		StyleConfig: nil,
	}
	storeRepo.On("GetTrips", mock.Anything, mock.Anything).Return([]domain.SavedTrip{legacy}, nil)

	resp, err := uc.Load(context.Background(), sess, "legacy-1")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultStyleConfig(), resp.Style)
}

func TestEnsureLoaded_NormalizesLegacyIDs(t *testing.T) {
	uc, storeRepo, sess := newTripFixture()
	stored := []domain.SavedTrip{
		{Name: "No ID", Date: 1, Coordinates: []domain.Coordinate{}, Stamps: []domain.Stamp{}},
		{ID: "ok-1", Name: "Has ID", Date: 2, Coordinates: []domain.Coordinate{}, Stamps: []domain.Stamp{}},
	}
	storeRepo.On("GetTrips", mock.Anything, "test-session").Return(stored, nil)
	// Ровно одна перезапись с починенными id
	storeRepo.On("PutTrips", mock.Anything, "test-session", mock.MatchedBy(func(trips []domain.SavedTrip) bool {
		return len(trips) == 2 && trips[0].ID != "" && trips[1].ID == "ok-1"
	})).Return(nil).Once()

	list, err := uc.List(context.Background(), sess)
	require.NoError(t, err)
	require.Equal(t, 2, list.Total)
	assert.NotEmpty(t, list.Trips[0].ID)

	// Повторный List не перечитывает хранилище
	_, err = uc.List(context.Background(), sess)
	require.NoError(t, err)
	storeRepo.AssertExpectations(t)
	storeRepo.AssertNumberOfCalls(t, "GetTrips", 1)
	storeRepo.AssertNumberOfCalls(t, "PutTrips", 1)
}

func TestTripExport_FilenameAndPayload(t *testing.T) {
	uc, storeRepo, sess := newTripFixture()
	storeRepo.On("GetTrips", mock.Anything, mock.Anything).Return([]domain.SavedTrip{}, nil)
	storeRepo.On("PutTrips", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	populateRoute(t, sess)
	saveResp, err := uc.Save(context.Background(), sess, "My Euro Trip")
	require.NoError(t, err)

	filename, data, err := uc.Export(context.Background(), sess, saveResp.Trip.ID)
	require.NoError(t, err)

	assert.Regexp(t, `^My_Euro_Trip_\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2}\.json$`, filename)

	var exported domain.SavedTrip
	require.NoError(t, json.Unmarshal(data, &exported))
	assert.Equal(t, saveResp.Trip.ID, exported.ID)
	assert.Len(t, exported.Coordinates, 2)
}

func TestTripExportImportRoundTrip(t *testing.T) {
	uc, storeRepo, sess := newTripFixture()
	storeRepo.On("GetTrips", mock.Anything, mock.Anything).Return([]domain.SavedTrip{}, nil)
	storeRepo.On("PutTrips", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	populateRoute(t, sess)
	saveResp, err := uc.Save(context.Background(), sess, "Euro Trip")
	require.NoError(t, err)

	_, data, err := uc.Export(context.Background(), sess, saveResp.Trip.ID)
	require.NoError(t, err)

	// Реимпорт в ту же сессию: id коллидирует и перечеканивается,
	// содержимое совпадает
	importResp, err := uc.Import(context.Background(), sess, data)
	require.NoError(t, err)
	assert.NotEqual(t, saveResp.Trip.ID, importResp.Trip.ID)
	assert.Equal(t, saveResp.Trip.Coordinates, importResp.Trip.Coordinates)
	assert.Equal(t, saveResp.Trip.Stamps, importResp.Trip.Stamps)
	assert.Equal(t, saveResp.Trip.Name, importResp.Trip.Name)
}

func TestTripImport(t *testing.T) {
	validDoc := func(id string) []byte {
		return []byte(fmt.Sprintf(`{
			"id": %q,
			"name": "Imported Euro Trip",
			"date": 1714000000000,
			"locations": "Paris, Rome",
			"coordinates": [{"name":"Paris","lat":48.8566,"lng":2.3522}],
			"stamps": [{"id":"s1","name":"Paris","color":"red"}]
		}`, id))
	}

	t.Run("valid document is listed and loaded", func(t *testing.T) {
		uc, storeRepo, sess := newTripFixture()
		storeRepo.On("GetTrips", mock.Anything, mock.Anything).Return([]domain.SavedTrip{}, nil)
		storeRepo.On("PutTrips", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		resp, err := uc.Import(context.Background(), sess, validDoc("imp-1"))
		require.NoError(t, err)
		assert.Empty(t, resp.Warning)
		assert.Equal(t, domain.TripID("imp-1"), resp.Trip.ID)

		// Поездка сразу становится активным маршрутом
		require.Len(t, resp.Route.Coordinates, 1)
		assert.Equal(t, "Paris", resp.Route.Coordinates[0].Name)

		list, err := uc.List(context.Background(), sess)
		require.NoError(t, err)
		assert.Equal(t, 1, list.Total)
	})

	t.Run("missing stamps array is rejected without touching the list", func(t *testing.T) {
		uc, storeRepo, sess := newTripFixture()

		doc := []byte(`{"name":"Broken","coordinates":[]}`)
		_, err := uc.Import(context.Background(), sess, doc)
		assert.ErrorIs(t, err, errors.ErrInvalidTripFormat)
		storeRepo.AssertNotCalled(t, "PutTrips", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("non-array coordinates rejected", func(t *testing.T) {
		uc, _, sess := newTripFixture()

		doc := []byte(`{"coordinates":{"name":"Paris"},"stamps":[]}`)
		_, err := uc.Import(context.Background(), sess, doc)
		assert.ErrorIs(t, err, errors.ErrInvalidTripFormat)
	})

	t.Run("not json at all", func(t *testing.T) {
		uc, _, sess := newTripFixture()

		_, err := uc.Import(context.Background(), sess, []byte("not json"))
		assert.ErrorIs(t, err, errors.ErrInvalidTripFormat)
	})

	t.Run("id collision mints a fresh id", func(t *testing.T) {
		uc, storeRepo, sess := newTripFixture()
		existing := domain.SavedTrip{ID: "imp-1", Name: "Existing", Date: 1,
			Coordinates: []domain.Coordinate{}, Stamps: []domain.Stamp{}}
		storeRepo.On("GetTrips", mock.Anything, mock.Anything).Return([]domain.SavedTrip{existing}, nil)
		storeRepo.On("PutTrips", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		resp, err := uc.Import(context.Background(), sess, validDoc("imp-1"))
		require.NoError(t, err)
		assert.NotEqual(t, domain.TripID("imp-1"), resp.Trip.ID)
		assert.NotEmpty(t, resp.Trip.ID)

		list, err := uc.List(context.Background(), sess)
		require.NoError(t, err)
		assert.Equal(t, 2, list.Total)
	})

	t.Run("store failure still loads the trip with a warning", func(t *testing.T) {
		uc, storeRepo, sess := newTripFixture()
		storeRepo.On("GetTrips", mock.Anything, mock.Anything).Return([]domain.SavedTrip{}, nil)
		storeRepo.On("PutTrips", mock.Anything, mock.Anything, mock.Anything).
			Return(errors.ErrStorageWriteFailed)

		resp, err := uc.Import(context.Background(), sess, validDoc("imp-2"))
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Warning)
		assert.Len(t, resp.Route.Coordinates, 1)
	})
}

func TestTwoPhaseDelete(t *testing.T) {
	newFixtureWithTrip := func(t *testing.T) (*usecase.TripUseCase, *MockTripStoreRepository, *usecase.Session, domain.TripID) {
		uc, storeRepo, sess := newTripFixture()
		trip := domain.SavedTrip{ID: "trip-1", Name: "Euro Trip", Date: 1,
			Coordinates: []domain.Coordinate{}, Stamps: []domain.Stamp{}}
		storeRepo.On("GetTrips", mock.Anything, mock.Anything).Return([]domain.SavedTrip{trip}, nil)
		return uc, storeRepo, sess, trip.ID
	}

	t.Run("request does not remove data", func(t *testing.T) {
		uc, storeRepo, sess, id := newFixtureWithTrip(t)

		resp, err := uc.RequestDelete(context.Background(), sess, id)
		require.NoError(t, err)
		assert.Equal(t, string(id), resp.PendingDeleteID)
		assert.False(t, resp.Deleted)

		list, err := uc.List(context.Background(), sess)
		require.NoError(t, err)
		assert.Equal(t, 1, list.Total)
		storeRepo.AssertNotCalled(t, "PutTrips", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("confirm removes and persists", func(t *testing.T) {
		uc, storeRepo, sess, id := newFixtureWithTrip(t)
		storeRepo.On("PutTrips", mock.Anything, "test-session", mock.MatchedBy(func(trips []domain.SavedTrip) bool {
			return len(trips) == 0
		})).Return(nil).Once()

		_, err := uc.RequestDelete(context.Background(), sess, id)
		require.NoError(t, err)

		resp, err := uc.ConfirmDelete(context.Background(), sess)
		require.NoError(t, err)
		assert.True(t, resp.Deleted)
		assert.Empty(t, resp.Warning)

		list, err := uc.List(context.Background(), sess)
		require.NoError(t, err)
		assert.Equal(t, 0, list.Total)
		assert.Empty(t, sess.PendingDelete())
		storeRepo.AssertExpectations(t)
	})

	t.Run("cancel keeps the trip", func(t *testing.T) {
		uc, storeRepo, sess, id := newFixtureWithTrip(t)

		_, err := uc.RequestDelete(context.Background(), sess, id)
		require.NoError(t, err)

		resp := uc.CancelDelete(sess)
		assert.False(t, resp.Deleted)
		assert.Empty(t, sess.PendingDelete())

		list, err := uc.List(context.Background(), sess)
		require.NoError(t, err)
		assert.Equal(t, 1, list.Total)
		storeRepo.AssertNotCalled(t, "PutTrips", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("confirm without pending mark", func(t *testing.T) {
		uc, _, sess, _ := newFixtureWithTrip(t)

		_, err := uc.ConfirmDelete(context.Background(), sess)
		assert.ErrorIs(t, err, errors.ErrNoPendingDelete)
	})

	t.Run("request for unknown trip", func(t *testing.T) {
		uc, _, sess, _ := newFixtureWithTrip(t)

		_, err := uc.RequestDelete(context.Background(), sess, "unknown")
		assert.ErrorIs(t, err, errors.ErrTripNotFound)
	})

	t.Run("confirm failure keeps memory consistent with warning", func(t *testing.T) {
		uc, storeRepo, sess, id := newFixtureWithTrip(t)
		storeRepo.On("PutTrips", mock.Anything, mock.Anything, mock.Anything).
			Return(errors.ErrStorageWriteFailed)

		_, err := uc.RequestDelete(context.Background(), sess, id)
		require.NoError(t, err)

		resp, err := uc.ConfirmDelete(context.Background(), sess)
		require.NoError(t, err)
		assert.True(t, resp.Deleted)
		assert.NotEmpty(t, resp.Warning)

		list, err := uc.List(context.Background(), sess)
		require.NoError(t, err)
		assert.Equal(t, 0, list.Total)
	})
}

func TestTripList_StoreReadFailure(t *testing.T) {
	uc, storeRepo, sess := newTripFixture()
	storeRepo.On("GetTrips", mock.Anything, mock.Anything).
		Return(nil, errors.ErrStorageError)

	_, err := uc.List(context.Background(), sess)
	assert.ErrorIs(t, err, errors.ErrStorageError)
}
