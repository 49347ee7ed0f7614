package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/motorpark/vehiculos/internal/domain"
	vehiculouc "github.com/motorpark/vehiculos/internal/usecase/vehiculo"
)

// fakeStore backs the handlers in tests. It honours the store contract
// the handlers rely on: unique matrículas and the query orderings.
type fakeStore struct {
	vehiculos map[string]domain.Vehiculo
	nextID    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{vehiculos: make(map[string]domain.Vehiculo)}
}

func (f *fakeStore) Insert(_ context.Context, v *domain.Vehiculo) (domain.Vehiculo, error) {
	for _, stored := range f.vehiculos {
		if stored.Matricula == v.Matricula {
			return domain.Vehiculo{}, domain.ErrDuplicateMatricula
		}
	}
	f.nextID++
	stored := *v
	stored.ID = fmt.Sprintf("veh-%04d", f.nextID)
	f.vehiculos[stored.ID] = stored
	return stored, nil
}

func (f *fakeStore) Replace(_ context.Context, id string, v *domain.Vehiculo) (domain.Vehiculo, error) {
	if _, ok := f.vehiculos[id]; !ok {
		return domain.Vehiculo{}, domain.ErrNotFound
	}
	for otherID, stored := range f.vehiculos {
		if otherID != id && stored.Matricula == v.Matricula {
			return domain.Vehiculo{}, domain.ErrDuplicateMatricula
		}
	}
	stored := *v
	stored.ID = id
	f.vehiculos[id] = stored
	return stored, nil
}

func (f *fakeStore) FindByID(_ context.Context, id string) (domain.Vehiculo, error) {
	v, ok := f.vehiculos[id]
	if !ok {
		return domain.Vehiculo{}, domain.ErrNotFound
	}
	return v, nil
}

func (f *fakeStore) FindByMatricula(_ context.Context, matricula string) (domain.Vehiculo, error) {
	for _, v := range f.vehiculos {
		if v.Matricula == matricula {
			return v, nil
		}
	}
	return domain.Vehiculo{}, domain.ErrNotFound
}

func (f *fakeStore) DeleteByID(_ context.Context, id string) (bool, error) {
	if _, ok := f.vehiculos[id]; !ok {
		return false, nil
	}
	delete(f.vehiculos, id)
	return true, nil
}

func (f *fakeStore) DeleteByMatricula(_ context.Context, matricula string) (bool, error) {
	for id, v := range f.vehiculos {
		if v.Matricula == matricula {
			delete(f.vehiculos, id)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ExistsByID(_ context.Context, id string) (bool, error) {
	_, ok := f.vehiculos[id]
	return ok, nil
}

func (f *fakeStore) ExistsByMatricula(_ context.Context, matricula string) (bool, error) {
	for _, v := range f.vehiculos {
		if v.Matricula == matricula {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) Count(_ context.Context) (int64, error) {
	return int64(len(f.vehiculos)), nil
}

func (f *fakeStore) ListAll(_ context.Context) ([]domain.Vehiculo, error) {
	out := f.filter(func(domain.Vehiculo) bool { return true })
	sort.Slice(out, func(i, j int) bool {
		return out[i].FechaCreacion.After(out[j].FechaCreacion)
	})
	return out, nil
}

func (f *fakeStore) FindByMarca(_ context.Context, marca string) ([]domain.Vehiculo, error) {
	return f.filter(func(v domain.Vehiculo) bool { return v.Marca == marca }), nil
}

func (f *fakeStore) FindByTipo(_ context.Context, tipo domain.TipoVehiculo) ([]domain.Vehiculo, error) {
	return f.filter(func(v domain.Vehiculo) bool { return v.Tipo == tipo }), nil
}

func (f *fakeStore) FindByAñoDesde(_ context.Context, año int) ([]domain.Vehiculo, error) {
	out := f.filter(func(v domain.Vehiculo) bool { return v.Año >= año })
	sort.Slice(out, func(i, j int) bool { return out[i].Año > out[j].Año })
	return out, nil
}

func (f *fakeStore) FindByPrecioEntre(_ context.Context, min, max float64) ([]domain.Vehiculo, error) {
	out := f.filter(func(v domain.Vehiculo) bool { return v.Precio >= min && v.Precio <= max })
	sort.Slice(out, func(i, j int) bool { return out[i].Precio < out[j].Precio })
	return out, nil
}

func (f *fakeStore) FindByPrecioMayorQue(_ context.Context, precio float64) ([]domain.Vehiculo, error) {
	out := f.filter(func(v domain.Vehiculo) bool { return v.Precio > precio })
	sort.Slice(out, func(i, j int) bool { return out[i].Precio < out[j].Precio })
	return out, nil
}

func (f *fakeStore) FindByMarcaYModelo(_ context.Context, marca, modelo string) ([]domain.Vehiculo, error) {
	return f.filter(func(v domain.Vehiculo) bool { return v.Marca == marca && v.Modelo == modelo }), nil
}

func (f *fakeStore) FindByColor(_ context.Context, color string) ([]domain.Vehiculo, error) {
	needle := strings.ToLower(color)
	return f.filter(func(v domain.Vehiculo) bool {
		return strings.Contains(strings.ToLower(v.Color), needle)
	}), nil
}

func (f *fakeStore) Query(_ context.Context, c domain.Criteria) ([]domain.Vehiculo, error) {
	out := f.filter(func(v domain.Vehiculo) bool {
		if c.HasMarca() && v.Marca != c.Marca {
			return false
		}
		if c.Tipo != nil && v.Tipo != *c.Tipo {
			return false
		}
		if c.HasAñoRange() && (v.Año < *c.AñoMin || v.Año > *c.AñoMax) {
			return false
		}
		if c.HasPrecioRange() && (v.Precio < *c.PrecioMin || v.Precio > *c.PrecioMax) {
			return false
		}
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Año != out[j].Año {
			return out[i].Año > out[j].Año
		}
		return out[i].Precio < out[j].Precio
	})
	return out, nil
}

func (f *fakeStore) Estadisticas(_ context.Context) (domain.Estadisticas, error) {
	stats := domain.Estadisticas{Marcas: map[string]int64{}, Tipos: map[string]int64{}}
	var sum float64
	for _, v := range f.vehiculos {
		stats.TotalVehiculos++
		stats.Marcas[v.Marca]++
		stats.Tipos[string(v.Tipo)]++
		sum += v.Precio
	}
	if stats.TotalVehiculos > 0 {
		stats.PrecioPromedio = sum / float64(stats.TotalVehiculos)
	}
	return stats, nil
}

func (f *fakeStore) filter(keep func(domain.Vehiculo) bool) []domain.Vehiculo {
	var out []domain.Vehiculo
	for _, v := range f.vehiculos {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func newTestAPI(t *testing.T) (http.Handler, *vehiculouc.Service) {
	t.Helper()
	svc := vehiculouc.New(newFakeStore())
	server := NewServer(svc, zap.NewNop())
	r := chi.NewRouter()
	server.Routes(r)
	return r, svc
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return out
}

func corollaBody() map[string]any {
	return map[string]any{
		"marca":     "Toyota",
		"modelo":    "Corolla",
		"matricula": "ABC123",
		"año":       2022,
		"color":     "Rojo",
		"precio":    25000.0,
		"tipo":      "COCHE",
	}
}

func mustCreate(t *testing.T, h http.Handler, body map[string]any) vehiculoResponse {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/vehiculos", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create returned %d: %s", rec.Code, rec.Body.String())
	}
	return decodeBody[vehiculoResponse](t, rec)
}

func TestCreate_Returns201WithSpanishBody(t *testing.T) {
	h, _ := newTestAPI(t)

	rec := do(t, h, http.MethodPost, "/api/vehiculos", corollaBody())
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	raw := decodeBody[map[string]any](t, rec)
	for _, field := range []string{"id", "marca", "modelo", "matricula", "año", "color", "precio", "tipo", "fecha_creacion", "fecha_actualizacion"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("response missing field %q", field)
		}
	}
	if raw["id"] == "" {
		t.Error("expected a non-empty id")
	}
	if raw["tipo"] != "COCHE" {
		t.Errorf("expected tipo COCHE, got %v", raw["tipo"])
	}
	if _, err := time.Parse(timeLayout, raw["fecha_creacion"].(string)); err != nil {
		t.Errorf("fecha_creacion not in %s format: %v", timeLayout, raw["fecha_creacion"])
	}
}

func TestCreate_DuplicateMatricula(t *testing.T) {
	h, _ := newTestAPI(t)
	mustCreate(t, h, corollaBody())

	rec := do(t, h, http.MethodPost, "/api/vehiculos", corollaBody())
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeBody[map[string]string](t, rec)
	if body["error"] != "Ya existe un vehículo con la matrícula: ABC123" {
		t.Errorf("unexpected error message: %q", body["error"])
	}
}

func TestCreate_UnknownTipo(t *testing.T) {
	h, _ := newTestAPI(t)

	body := corollaBody()
	body["tipo"] = "AVION"
	rec := do(t, h, http.MethodPost, "/api/vehiculos", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	resp := decodeBody[map[string]string](t, rec)
	if resp["error"] != "Tipo de vehículo no válido: AVION" {
		t.Errorf("unexpected error message: %q", resp["error"])
	}
}

func TestCreate_ValidationError(t *testing.T) {
	h, _ := newTestAPI(t)

	body := corollaBody()
	body["marca"] = ""
	rec := do(t, h, http.MethodPost, "/api/vehiculos", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreate_MalformedBody(t *testing.T) {
	h, _ := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/vehiculos", strings.NewReader("{no es json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetByID(t *testing.T) {
	h, _ := newTestAPI(t)
	created := mustCreate(t, h, corollaBody())

	rec := do(t, h, http.MethodGet, "/api/vehiculos/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got := decodeBody[vehiculoResponse](t, rec)
	if got.ID != created.ID || got.Matricula != "ABC123" {
		t.Errorf("unexpected vehicle: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	h, _ := newTestAPI(t)

	rec := do(t, h, http.MethodGet, "/api/vehiculos/desconocido", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	body := decodeBody[map[string]string](t, rec)
	if body["error"] != "Vehículo no encontrado con ID: desconocido" {
		t.Errorf("unexpected error message: %q", body["error"])
	}
}

func TestGetByMatricula_NotFound(t *testing.T) {
	h, _ := newTestAPI(t)

	rec := do(t, h, http.MethodGet, "/api/vehiculos/matricula/ZZZ000", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	body := decodeBody[map[string]string](t, rec)
	if body["error"] != "Vehículo no encontrado con matrícula: ZZZ000" {
		t.Errorf("unexpected error message: %q", body["error"])
	}
}

func TestUpdate_ChangesPlateAndPrice(t *testing.T) {
	h, _ := newTestAPI(t)
	created := mustCreate(t, h, corollaBody())

	upd := corollaBody()
	upd["matricula"] = "XYZ999"
	upd["precio"] = 26000.0
	rec := do(t, h, http.MethodPut, "/api/vehiculos/"+created.ID, upd)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	got := decodeBody[vehiculoResponse](t, do(t, h, http.MethodGet, "/api/vehiculos/"+created.ID, nil))
	if got.Matricula != "XYZ999" || got.Precio != 26000.0 {
		t.Errorf("update not applied: %+v", got)
	}
	if got.FechaCreacion != created.FechaCreacion {
		t.Errorf("fecha_creacion changed: %s -> %s", created.FechaCreacion, got.FechaCreacion)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	h, _ := newTestAPI(t)

	rec := do(t, h, http.MethodPut, "/api/vehiculos/desconocido", corollaBody())
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUpdate_PlateHeldByOther(t *testing.T) {
	h, _ := newTestAPI(t)
	mustCreate(t, h, corollaBody())

	second := corollaBody()
	second["matricula"] = "DEF456"
	second["modelo"] = "Yaris"
	created := mustCreate(t, h, second)

	upd := corollaBody() // ABC123, held by the first vehicle
	rec := do(t, h, http.MethodPut, "/api/vehiculos/"+created.ID, upd)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeBody[map[string]string](t, rec)
	if body["error"] != "Ya existe otro vehículo con la matrícula: ABC123" {
		t.Errorf("unexpected error message: %q", body["error"])
	}
}

func TestDelete_ByID(t *testing.T) {
	h, _ := newTestAPI(t)
	created := mustCreate(t, h, corollaBody())

	rec := do(t, h, http.MethodDelete, "/api/vehiculos/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody[map[string]string](t, rec)
	if body["mensaje"] != "Vehículo eliminado correctamente" {
		t.Errorf("unexpected message: %q", body["mensaje"])
	}

	rec = do(t, h, http.MethodDelete, "/api/vehiculos/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete must 404, got %d", rec.Code)
	}
}

func TestDelete_ByMatricula(t *testing.T) {
	h, _ := newTestAPI(t)
	mustCreate(t, h, corollaBody())

	rec := do(t, h, http.MethodDelete, "/api/vehiculos/matricula/ABC123", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rec = do(t, h, http.MethodDelete, "/api/vehiculos/matricula/ABC123", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestListAll_EmptyIsJSONArray(t *testing.T) {
	h, _ := newTestAPI(t)

	rec := do(t, h, http.MethodGet, "/api/vehiculos", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("empty listing must be [], got %s", got)
	}
}

func TestCount(t *testing.T) {
	h, _ := newTestAPI(t)
	mustCreate(t, h, corollaBody())

	rec := do(t, h, http.MethodGet, "/api/vehiculos/count", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody[map[string]int64](t, rec)
	if body["total"] != 1 {
		t.Errorf("expected total 1, got %d", body["total"])
	}
}

func TestPorTipo_Unknown(t *testing.T) {
	h, _ := newTestAPI(t)

	rec := do(t, h, http.MethodGet, "/api/vehiculos/tipo/PATINETE", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPorAño_NonInteger(t *testing.T) {
	h, _ := newTestAPI(t)

	rec := do(t, h, http.MethodGet, "/api/vehiculos/año/hace-poco", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeBody[map[string]string](t, rec)
	if body["error"] != "El año debe ser un número entero: hace-poco" {
		t.Errorf("unexpected error message: %q", body["error"])
	}
}

func TestPorRangoPrecio_NonNumeric(t *testing.T) {
	h, _ := newTestAPI(t)

	rec := do(t, h, http.MethodGet, "/api/vehiculos/precio?min=barato&max=30000", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeBody[map[string]string](t, rec)
	if body["error"] != "Parámetro min no válido" {
		t.Errorf("unexpected error message: %q", body["error"])
	}
}

func seedAPI(t *testing.T) http.Handler {
	t.Helper()
	h, svc := newTestAPI(t)
	inserted, err := svc.Seed(context.Background())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if inserted != 6 {
		t.Fatalf("expected 6 seeded vehicles, got %d", inserted)
	}
	return h
}

func TestPorRangoPrecio_SeededSet(t *testing.T) {
	h := seedAPI(t)

	rec := do(t, h, http.MethodGet, "/api/vehiculos/precio?min=20000&max=30000", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got := decodeBody[[]vehiculoResponse](t, rec)
	if len(got) != 3 {
		t.Fatalf("expected Corolla, Civic and Transporter, got %d vehicles", len(got))
	}
	for _, v := range got {
		if v.Precio < 20000 || v.Precio > 30000 {
			t.Errorf("%s outside range: %f", v.Modelo, v.Precio)
		}
	}
}

func TestBusquedaAvanzada_TipoCoche(t *testing.T) {
	h := seedAPI(t)

	rec := do(t, h, http.MethodGet, "/api/vehiculos/busqueda-avanzada?tipo=COCHE", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got := decodeBody[[]vehiculoResponse](t, rec)
	if len(got) != 2 {
		t.Fatalf("expected the two coches, got %d", len(got))
	}
	// año descending: Civic 2023 before Corolla 2022
	if got[0].Modelo != "Civic" || got[1].Modelo != "Corolla" {
		t.Errorf("unexpected order: %s, %s", got[0].Modelo, got[1].Modelo)
	}
}

func TestBusquedaAvanzada_NoParamsListsEverything(t *testing.T) {
	h := seedAPI(t)

	rec := do(t, h, http.MethodGet, "/api/vehiculos/busqueda-avanzada", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got := decodeBody[[]vehiculoResponse](t, rec)
	if len(got) != 6 {
		t.Errorf("no criteria must list the whole catalogue, got %d", len(got))
	}
}

func TestBusquedaAvanzada_MalformedParam(t *testing.T) {
	h, _ := newTestAPI(t)

	rec := do(t, h, http.MethodGet, "/api/vehiculos/busqueda-avanzada?añoMin=reciente", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeBody[map[string]string](t, rec)
	if body["error"] != "Parámetro añoMin no válido: reciente" {
		t.Errorf("unexpected error message: %q", body["error"])
	}
}

func TestEstadisticas_SeededSet(t *testing.T) {
	h := seedAPI(t)

	rec := do(t, h, http.MethodGet, "/api/vehiculos/estadisticas", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	raw := decodeBody[map[string]json.RawMessage](t, rec)
	for _, key := range []string{"totalVehicles", "brands", "kinds", "averagePrice"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("statistics missing key %q", key)
		}
	}

	got := decodeBody[estadisticasResponse](t, rec)
	if got.TotalVehicles != 6 {
		t.Errorf("expected 6 vehicles, got %d", got.TotalVehicles)
	}
	if got.Kinds["COCHE"] != 2 {
		t.Errorf("expected 2 coches, got %d", got.Kinds["COCHE"])
	}
	if got.AveragePrice < 31666.66 || got.AveragePrice > 31666.67 {
		t.Errorf("unexpected average price: %f", got.AveragePrice)
	}
}

func TestPorMarca(t *testing.T) {
	h := seedAPI(t)

	rec := do(t, h, http.MethodGet, "/api/vehiculos/marca/Toyota", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got := decodeBody[[]vehiculoResponse](t, rec)
	if len(got) != 1 || got[0].Modelo != "Corolla" {
		t.Errorf("expected only the Corolla, got %+v", got)
	}
}

func TestPorAño_FromYear(t *testing.T) {
	h := seedAPI(t)

	rec := do(t, h, http.MethodGet, "/api/vehiculos/año/2022", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got := decodeBody[[]vehiculoResponse](t, rec)
	// Corolla 2022, Civic 2023, X5 2023
	if len(got) != 3 {
		t.Fatalf("expected 3 vehicles from 2022 on, got %d", len(got))
	}
	for _, v := range got {
		if v.Año < 2022 {
			t.Errorf("%s is older than 2022: %d", v.Modelo, v.Año)
		}
	}
}
