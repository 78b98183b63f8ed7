package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/scottkoskoski/gardening-app/internal/domain"
	"github.com/scottkoskoski/gardening-app/internal/featureflags"
	"github.com/scottkoskoski/gardening-app/internal/repository/memory"
	"github.com/scottkoskoski/gardening-app/internal/security"
	"github.com/scottkoskoski/gardening-app/internal/security/audit"
	"github.com/scottkoskoski/gardening-app/internal/security/auth"
	"github.com/scottkoskoski/gardening-app/internal/service"
	"github.com/scottkoskoski/gardening-app/internal/validation"
)

type fakeZones struct {
	zones map[string]string
}

func (f fakeZones) LookupZone(_ context.Context, zip string) (*domain.HardinessZone, error) {
	zone, ok := f.zones[zip]
	if !ok {
		return nil, domain.NotFound("No hardiness zone found for this zip code.")
	}
	lat, lon := 40.75, -73.99
	return &domain.HardinessZone{ZipCode: zip, Zone: zone, TemperatureRange: "0 to 5", Latitude: &lat, Longitude: &lon}, nil
}

type fakeWeather struct{ err error }

func (f fakeWeather) CurrentWeather(_ context.Context, zip string) (*domain.CurrentWeather, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.CurrentWeather{
		Location:      domain.Location{Name: "New York", Latitude: 40.71, Longitude: -74.01},
		Time:          "2026-10-19T12:00",
		Temperature2m: 14.2,
		WeatherCode:   3,
		Units:         map[string]string{"temperature_2m": "°C"},
	}, nil
}

type testServer struct {
	handler http.Handler
	auth    *service.AuthService
	store   *memory.Store
}

func newTestServer(t *testing.T, weatherErr error) *testServer {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	_, err := service.NewGardenTypeService(store, nil).Seed(ctx)
	require.NoError(t, err)

	v := validation.New(time.Now)
	tokens := auth.NewTokenManager("test-secret", "test", time.Hour)
	authSvc := service.NewAuthService(store, tokens, v, nil).WithHashCost(bcrypt.MinCost)
	zones := fakeZones{zones: map[string]string{"10001": "7b"}}
	authz := security.NewAuthorizer(nil)
	auditLog := audit.NewLogger(nil)

	h := NewRouter(RouterDeps{
		Users:        NewUserHandler(authSvc, service.NewProfileService(store, zones, v, featureflags.New(nil), nil), auditLog, 30, nil),
		Hardiness:    NewHardinessHandler(zones, nil),
		Weather:      NewWeatherHandler(fakeWeather{err: weatherErr}, nil),
		Plants:       NewPlantHandler(service.NewPlantService(store, v, nil), nil),
		GardenTypes:  NewGardenTypeHandler(service.NewGardenTypeService(store, nil), nil),
		Gardens:      NewGardenHandler(service.NewGardenService(store, authz, v, nil), auditLog, nil),
		GardenPlants: NewGardenPlantHandler(service.NewGardenPlantService(store, authz, v, nil), auditLog, nil),
		Health:       NewHealthHandler(map[string]Pinger{"database": PingFunc(func(context.Context) error { return nil }), "redis": nil}, nil),
		Tokens:       authSvc,
		Admins:       authSvc,
		Audit:        auditLog,
		CORSOrigins:  []string{"http://localhost:3000"},
	})
	return &testServer{handler: h, auth: authSvc, store: store}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// register creates a user and returns a bearer token for it.
func (s *testServer) register(t *testing.T, username string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/users/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "GardenPassword123!",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return s.login(t, username, "GardenPassword123!")
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/users/login", "", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotEmpty(t, res.Token)
	return res.Token
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestRegisterLoginAndGetUser(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/users/register", "", map[string]string{
		"username": "gardener",
		"email":    "gardener@example.com",
		"password": "GardenPassword123!",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	reg := decode[RegisterResponse](t, rec)
	assert.Equal(t, "User registered successfully", reg.Message)
	assert.Positive(t, reg.UserID)

	token := s.login(t, "gardener", "GardenPassword123!")
	rec = s.do(t, http.MethodGet, "/users/get_user", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	user := decode[UserView](t, rec)
	assert.Equal(t, reg.UserID, user.ID)
	assert.Equal(t, "gardener", user.Username)
	assert.False(t, user.IsAdmin)
	assert.NotNil(t, user.LastLogin)
}

func TestRegisterDuplicateReportsField(t *testing.T) {
	s := newTestServer(t, nil)
	s.register(t, "gardener")

	rec := s.do(t, http.MethodPost, "/users/register", "", map[string]string{
		"username": "gardener",
		"email":    "other@example.com",
		"password": "GardenPassword123!",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	body := decode[ErrorResponse](t, rec)
	assert.Contains(t, body.Details, "username")
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"empty body", nil, http.StatusBadRequest},
		{"malformed", `{"username":`, http.StatusBadRequest},
		{"unknown field", map[string]string{"username": "gardener", "email": "g@example.com", "password": "GardenPassword123!", "role": "admin"}, http.StatusBadRequest},
		{"weak password", map[string]string{"username": "gardener", "email": "g@example.com", "password": "password"}, http.StatusUnprocessableEntity},
		{"bad username", map[string]string{"username": "a b", "email": "g@example.com", "password": "GardenPassword123!"}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/users/register", "", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestNonJSONContentTypeRejected(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader("username=a&password=b"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginFailures(t *testing.T) {
	s := newTestServer(t, nil)
	s.register(t, "gardener")

	rec := s.do(t, http.MethodPost, "/users/login", "", map[string]string{"username": "gardener", "password": "WrongPassword1!"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/users/login", "", map[string]string{"username": "gardener"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, nil)
	for _, path := range []string{"/users/get_user", "/users/profile", "/user_gardens"} {
		rec := s.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
	rec := s.do(t, http.MethodGet, "/user_gardens", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfileUpsertEnrichesZone(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.register(t, "gardener")

	rec := s.do(t, http.MethodGet, "/users/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[ProfileView](t, rec).ZipCode)

	rec = s.do(t, http.MethodPost, "/users/profile", token, map[string]any{"zipCode": "10001", "city": "New York"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	profile := decode[ProfileView](t, rec)
	require.NotNil(t, profile.HardinessZone)
	assert.Equal(t, "7b", *profile.HardinessZone)
	assert.Equal(t, "New York", *profile.City)

	rec = s.do(t, http.MethodPost, "/users/profile", token, `{"city": null}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	profile = decode[ProfileView](t, rec)
	assert.Nil(t, profile.City)
	assert.Equal(t, "10001", *profile.ZipCode)
}

func TestInactiveUsersRequiresAdmin(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.register(t, "gardener")

	rec := s.do(t, http.MethodGet, "/users/inactive_users", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	_, err := s.auth.CreateAdmin(context.Background(), validation.RegisterRequest{
		Username: "admin", Email: "admin@example.com", Password: "AdminPassword123!",
	})
	require.NoError(t, err)
	adminToken := s.login(t, "admin", "AdminPassword123!")

	rec = s.do(t, http.MethodGet, "/users/inactive_users?days=30", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]InactiveUserView](t, rec))

	rec = s.do(t, http.MethodGet, "/users/inactive_users?days=abc", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGardenOwnership(t *testing.T) {
	s := newTestServer(t, nil)
	alice := s.register(t, "alice")
	bob := s.register(t, "bob")

	rec := s.do(t, http.MethodPost, "/user_gardens", alice, map[string]any{
		"gardenName":      "Backyard",
		"gardenType":      "Raised Bed",
		"preferredPlants": "Tomato,Basil",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	garden := decode[GardenView](t, rec)
	assert.Equal(t, "Raised Bed", garden.GardenType)
	assert.Equal(t, []string{"Tomato", "Basil"}, garden.PreferredPlants)
	assert.Equal(t, []string{}, garden.CurrentPlants)

	path := "/user_gardens/" + itoa(garden.ID)

	rec = s.do(t, http.MethodGet, path, bob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodPut, path, bob, map[string]any{"gardenName": "Mine"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodDelete, path, bob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/user_gardens", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]GardenView](t, rec))

	rec = s.do(t, http.MethodPut, path, alice, map[string]any{"gardenName": "Front yard", "pestProtection": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[GardenView](t, rec)
	assert.Equal(t, "Front yard", updated.GardenName)
	assert.True(t, updated.PestProtection)

	rec = s.do(t, http.MethodPut, path, alice, map[string]any{"userId": 99})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodDelete, path, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodGet, path, alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateGardenRejectsUnknownType(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.register(t, "gardener")

	rec := s.do(t, http.MethodPost, "/user_gardens", token, map[string]any{"gardenName": "Plot", "gardenType": "Moon Base"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/user_gardens", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]GardenView](t, rec))
}

func TestGardenPlantLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	alice := s.register(t, "alice")
	bob := s.register(t, "bob")

	rec := s.do(t, http.MethodPost, "/plants", "", map[string]any{"name": "Tomato", "suitableForContainers": true})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	plantID := decode[CreatedResponse](t, rec).ID

	rec = s.do(t, http.MethodPost, "/user_gardens", alice, map[string]any{"gardenName": "Patio", "gardenType": "Container"})
	require.Equal(t, http.StatusCreated, rec.Code)
	gardenID := decode[GardenView](t, rec).ID

	harvest := time.Now().AddDate(0, 2, 0).Format("2006-01-02")
	rec = s.do(t, http.MethodPost, "/user_garden_plants", alice, map[string]any{
		"gardenId":            gardenID,
		"plantId":             plantID,
		"expectedHarvestDate": harvest,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	gp := decode[GardenPlantView](t, rec)
	assert.Equal(t, "Tomato", gp.PlantName)
	assert.Equal(t, "Seedling", gp.GrowthStage)
	require.NotNil(t, gp.ExpectedHarvestDate)
	assert.Equal(t, harvest, *gp.ExpectedHarvestDate)

	rec = s.do(t, http.MethodPost, "/user_garden_plants", bob, map[string]any{"gardenId": gardenID, "plantId": plantID})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodPost, "/user_garden_plants", alice, map[string]any{"gardenId": gardenID, "plantId": plantID + 100})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodPost, "/user_garden_plants", alice, map[string]any{
		"gardenId": gardenID, "plantId": plantID, "expectedHarvestDate": "2001-01-01",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, http.MethodGet, "/user_garden_plants/"+itoa(gardenID), alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]GardenPlantView](t, rec), 1)
	rec = s.do(t, http.MethodGet, "/user_garden_plants/"+itoa(gardenID), bob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	path := "/user_garden_plants/" + itoa(gp.ID)
	rec = s.do(t, http.MethodPatch, path, alice, map[string]any{"growthStage": "Flowering"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Flowering", decode[GardenPlantView](t, rec).GrowthStage)

	rec = s.do(t, http.MethodDelete, path, bob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodDelete, path, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodDelete, path, alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPlantFilters(t *testing.T) {
	s := newTestServer(t, nil)
	for _, p := range []map[string]any{
		{"name": "Tomato", "suitableForContainers": true, "hardinessMin": "3", "hardinessMax": "10"},
		{"name": "Orchid", "suitableForContainers": true, "requiresGreenhouse": true, "hardinessMin": "5", "hardinessMax": "9"},
		{"name": "Carrot"},
	} {
		rec := s.do(t, http.MethodPost, "/plants", "", p)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	names := func(query string) []string {
		rec := s.do(t, http.MethodGet, "/plants/get_plants"+query, "", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var out []string
		for _, p := range decode[PlantListResponse](t, rec).Plants {
			out = append(out, p.Name)
		}
		return out
	}

	assert.ElementsMatch(t, []string{"Tomato", "Orchid", "Carrot"}, names(""))
	assert.ElementsMatch(t, []string{"Tomato", "Orchid"}, names("?containers=true"))
	assert.ElementsMatch(t, []string{"Orchid"}, names("?containers=true&greenhouse=true"))
	assert.ElementsMatch(t, []string{"Tomato"}, names("?name=TOM"))
	assert.Empty(t, names("?name=tom&greenhouse=true"))
	assert.ElementsMatch(t, []string{"Orchid"}, names("?zone=5&greenhouse=true&containers=true"))

	rec := s.do(t, http.MethodGet, "/plants/get_plants?greenhouse=maybe", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlantReadViewDefaults(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(t, http.MethodPost, "/plants", "", map[string]any{"name": "Kale"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[CreatedResponse](t, rec).ID

	rec = s.do(t, http.MethodGet, "/plants/"+itoa(id), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[PlantView](t, rec)
	assert.Equal(t, "N/A", p.ScientificName)
	assert.Equal(t, "N/A", p.Sunlight)
	assert.Nil(t, p.Height)

	rec = s.do(t, http.MethodGet, "/plants/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(t, http.MethodGet, "/plants/999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/plants", "", map[string]any{"name": "Kale"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = s.do(t, http.MethodPost, "/plants", "", map[string]any{"name": "Bean", "hardinessMin": "9a", "hardinessMax": "3b"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGardenTypes(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(t, http.MethodGet, "/garden_types", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	types := decode[[]GardenTypeView](t, rec)
	require.Len(t, types, 10)

	rec = s.do(t, http.MethodGet, "/garden_types/"+itoa(types[0].ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, types[0].Name, decode[GardenTypeView](t, rec).Name)

	rec = s.do(t, http.MethodGet, "/garden_types/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHardinessProxy(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/hardiness/get_hardiness_zone?zip=10001", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	hz := decode[HardinessView](t, rec)
	assert.Equal(t, "7b", hz.Zone)
	assert.Equal(t, "10001", hz.ZipCode)
	require.NotNil(t, hz.Coordinates.Lat)

	rec = s.do(t, http.MethodGet, "/hardiness/get_hardiness_zone", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Zip code is required.", decode[ErrorResponse](t, rec).Error)

	rec = s.do(t, http.MethodGet, "/hardiness/get_hardiness_zone?zip=1234", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/hardiness/get_hardiness_zone?zip=99999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWeatherProxy(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(t, http.MethodGet, "/weather/get_weather?zip=10001", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	w := decode[WeatherView](t, rec)
	assert.Equal(t, "New York", w.Location.Name)
	assert.Equal(t, 3, w.Current.WeatherCode)
	assert.Equal(t, "°C", w.Units["temperature_2m"])

	failing := newTestServer(t, domain.BadGateway("weather service unavailable", errors.New("connection refused")))
	rec = failing.do(t, http.MethodGet, "/weather/get_weather?zip=10001", "", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ready := decode[ReadinessResponse](t, rec)
	assert.Equal(t, "ok", ready.Checks["database"])
	assert.Equal(t, "not configured", ready.Checks["redis"])

	down := NewHealthHandler(map[string]Pinger{
		"database": PingFunc(func(context.Context) error { return errors.New("dial tcp 10.0.0.5:5432: connection refused") }),
	}, nil)
	rec = httptest.NewRecorder()
	down.Ready(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
	notReady := decode[ReadinessResponse](t, rec)
	assert.Equal(t, "not_ready", notReady.Status)
	assert.Equal(t, "error", notReady.Checks["database"])
}

func TestRequestIDEchoed(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-Id"))
}
