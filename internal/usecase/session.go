package usecase

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tripstamp-microservice/internal/domain"
)

// Session - явно владеемое состояние одной пользовательской сессии.
// Все мутации идут только через методы под мьютексом; наружу отдаются
// исключительно глубокие копии, чтобы активное состояние и сохраненный
// список никогда не делили ссылки.
type Session struct {
	ID string

	mu              sync.Mutex
	route           domain.RouteState
	style           domain.StyleConfig
	rawLocations    string
	trips           []domain.SavedTrip
	tripsLoaded     bool
	pendingDeleteID domain.TripID

	// Монотонный токен запроса: устаревший ответ геокодера,
	// пришедший после более нового запроса, отбрасывается
	resolveToken uint64
	loading      bool
	exporting    bool

	coordsRev    uint64
	viewRevision uint64
	refitPending bool
	refitTimer   *time.Timer
}

func NewSession(id string) *Session {
	return &Session{
		ID:    id,
		style: domain.DefaultStyleConfig(),
	}
}

// Snapshot возвращает копии маршрута и стиля
func (s *Session) Snapshot() (domain.RouteState, domain.StyleConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.route.Clone(), s.style
}

func (s *Session) RawLocations() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rawLocations
}

func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// BeginResolve начинает новую генерацию маршрута: состояние очищается
// сразу (координаты, пропуски, штампы, кастомная иконка), чтобы на время
// асинхронного разрешения не показывались устаревшие данные. Возвращает
// токен, с которым нужно применять результат.
func (s *Session) BeginResolve(rawLocations string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.route = domain.RouteState{Status: "Resolving..."}
	s.style.CustomIconURL = ""
	s.rawLocations = rawLocations
	s.loading = true
	s.resolveToken++
	return s.resolveToken
}

// FinishResolve гарантированно снимает флаг загрузки, если токен все
// еще актуален; вызывается в defer на всех путях
func (s *Session) FinishResolve(token uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token == s.resolveToken {
		s.loading = false
	}
}

// ApplyResolution применяет результат геокодирования. Возвращает false,
// если токен устарел - тогда результат отброшен и состояние не тронуто.
func (s *Session) ApplyResolution(token uint64, coords []domain.Coordinate, missing []string, stamps []domain.Stamp, status string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.resolveToken {
		return false
	}
	s.route = domain.RouteState{
		Coordinates:      coords,
		MissingLocations: missing,
		Stamps:           stamps,
		Status:           status,
	}
	s.loading = false
	s.coordsRev++
	s.viewRevision++
	return true
}

// FailResolution фиксирует статус неудачи, если токен актуален
func (s *Session) FailResolution(token uint64, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.resolveToken {
		return
	}
	s.route = domain.RouteState{Status: status}
	s.loading = false
}

// ClearRoute сбрасывает активный маршрут
func (s *Session) ClearRoute() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.route = domain.RouteState{}
	s.rawLocations = ""
	s.resolveToken++
	s.loading = false
	s.coordsRev++
	s.viewRevision++
}

// ApplyStyle заменяет конфигурацию стиля и возвращает предыдущую.
// Кастомная иконка управляется отдельным потоком и сохраняется.
func (s *Session) ApplyStyle(next domain.StyleConfig) (prev domain.StyleConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev = s.style
	next.CustomIconURL = s.style.CustomIconURL
	s.style = next
	s.viewRevision++
	return prev
}

// SetCustomIcon устанавливает кастомную иконку маркеров; меняет только
// StyleConfig и не трогает маршрут
func (s *Session) SetCustomIcon(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.style.CustomIconURL = url
	s.viewRevision++
}

// Stamp возвращает копию штампа по id
func (s *Session) Stamp(id domain.TripID) (domain.Stamp, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.route.Stamps {
		if st.ID == id {
			return st, true
		}
	}
	return domain.Stamp{}, false
}

// SetStampImage записывает результат успешной генерации картинки
// в один штамп
func (s *Session) SetStampImage(id domain.TripID, imageURL, description string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.route.Stamps {
		if s.route.Stamps[i].ID == id {
			s.route.Stamps[i].ImageURL = imageURL
			s.route.Stamps[i].Description = description
			return true
		}
	}
	return false
}

// SetStampSelected переключает эфемерный флаг выбора штампа
func (s *Session) SetStampSelected(id domain.TripID, selected bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.route.Stamps {
		if s.route.Stamps[i].ID == id {
			s.route.Stamps[i].Selected = selected
			return true
		}
	}
	return false
}

// SelectedStamps возвращает копии выбранных штампов в порядке маршрута
func (s *Session) SelectedStamps() []domain.Stamp {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Stamp, 0)
	for _, st := range s.route.Stamps {
		if st.Selected {
			out = append(out, st)
		}
	}
	return out
}

func (s *Session) SetExporting(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exporting = v
}

func (s *Session) Exporting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exporting
}

// --- Сохраненные поездки ---

func (s *Session) TripsLoaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tripsLoaded
}

// SetTrips устанавливает загруженный из хранилища список (копией)
func (s *Session) SetTrips(trips []domain.SavedTrip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trips = domain.CloneTrips(trips)
	s.tripsLoaded = true
}

// Trips возвращает глубокую копию списка поездок
func (s *Session) Trips() []domain.SavedTrip {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CloneTrips(s.trips)
}

// FindTrip возвращает копию поездки по id
func (s *Session) FindTrip(id domain.TripID) (domain.SavedTrip, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.trips {
		if t.ID == id {
			return t.Clone(), true
		}
	}
	return domain.SavedTrip{}, false
}

// PrependTrip добавляет поездку в начало списка (свежие сверху)
func (s *Session) PrependTrip(trip domain.SavedTrip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trips = append([]domain.SavedTrip{trip.Clone()}, s.trips...)
}

// RemoveTrip убирает поездку из списка в памяти
func (s *Session) RemoveTrip(id domain.TripID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.trips {
		if t.ID == id {
			s.trips = append(s.trips[:i], s.trips[i+1:]...)
			return true
		}
	}
	return false
}

// LoadTrip замещает активное состояние копиями из сохраненной поездки.
// Список пропусков в снимок не входит и сбрасывается; поездки, сохраненные
// до поддержки стиля, получают документированные значения по умолчанию.
func (s *Session) LoadTrip(trip domain.SavedTrip) {
	t := trip.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.route = domain.RouteState{
		Coordinates:      t.Coordinates,
		MissingLocations: []string{},
		Stamps:           t.Stamps,
		Status:           "Loaded \"" + t.Name + "\".",
	}
	s.rawLocations = t.Locations
	if t.StyleConfig != nil {
		s.style = *t.StyleConfig
	} else {
		s.style = domain.DefaultStyleConfig()
	}
	s.resolveToken++
	s.loading = false
	s.coordsRev++
	s.viewRevision++
}

// --- Двухфазное удаление ---

func (s *Session) PendingDelete() domain.TripID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingDeleteID
}

// MarkPendingDelete помечает поездку к удалению, данные не меняются
func (s *Session) MarkPendingDelete(id domain.TripID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingDeleteID = id
}

// ClearPendingDelete снимает пометку удаления
func (s *Session) ClearPendingDelete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingDeleteID = ""
}

// --- Карта ---

func (s *Session) ViewRevision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewRevision
}

func (s *Session) RefitPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refitPending
}

// ScheduleRefit откладывает пересчет границ карты на settle-задержку,
// чтобы дать layout стабилизироваться; повторный вызов сбрасывает таймер
func (s *Session) ScheduleRefit(delay time.Duration, done func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refitTimer != nil {
		s.refitTimer.Stop()
	}
	s.refitPending = true
	s.refitTimer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		s.refitPending = false
		s.viewRevision++
		s.mu.Unlock()
		if done != nil {
			done()
		}
	})
}

// SessionRegistry хранит сессии по идентификатору
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*Session),
	}
}

// GetOrCreate возвращает сессию по id, создавая новую при необходимости
func (r *SessionRegistry) GetOrCreate(id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}

	r.mu.RLock()
	sess, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		return sess
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.sessions[id]; ok {
		return sess
	}
	sess = NewSession(id)
	r.sessions[id] = sess
	return sess
}
