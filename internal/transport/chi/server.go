package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/motorpark/vehiculos/internal/domain"
	vehiculouc "github.com/motorpark/vehiculos/internal/usecase/vehiculo"
)

// Server maps the /api/vehiculos surface onto the vehicle service.
type Server struct {
	vehiculos *vehiculouc.Service
	logger    *zap.Logger
}

// NewServer creates the HTTP API server.
func NewServer(vehiculos *vehiculouc.Service, logger *zap.Logger) *Server {
	return &Server{vehiculos: vehiculos, logger: logger}
}

// Routes registers every endpoint on the router. Static segments are
// registered alongside the {id} wildcard; chi resolves them first.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api/vehiculos", func(r chi.Router) {
		r.Get("/", s.listAll)
		r.Post("/", s.create)
		r.Get("/count", s.count)
		r.Get("/estadisticas", s.estadisticas)
		r.Get("/busqueda-avanzada", s.busquedaAvanzada)
		r.Get("/precio", s.porRangoPrecio)
		r.Get("/matricula/{matricula}", s.getByMatricula)
		r.Delete("/matricula/{matricula}", s.deleteByMatricula)
		r.Get("/marca/{marca}", s.porMarca)
		r.Get("/tipo/{tipo}", s.porTipo)
		r.Get("/año/{año}", s.porAño)
		r.Get("/{id}", s.getByID)
		r.Put("/{id}", s.update)
		r.Delete("/{id}", s.delete)
	})
}

func (s *Server) listAll(w http.ResponseWriter, r *http.Request) {
	vehiculos, err := s.vehiculos.ListAll(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponseList(vehiculos))
}

func (s *Server) getByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	v, err := s.vehiculos.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Vehículo no encontrado con ID: "+id)
			return
		}
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(v))
}

func (s *Server) getByMatricula(w http.ResponseWriter, r *http.Request) {
	matricula := chi.URLParam(r, "matricula")
	v, err := s.vehiculos.GetByMatricula(r.Context(), matricula)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Vehículo no encontrado con matrícula: "+matricula)
			return
		}
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(v))
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeVehiculo(w, r)
	if !ok {
		return
	}

	v, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Tipo de vehículo no válido: "+req.Tipo)
		return
	}

	created, err := s.vehiculos.Create(r.Context(), &v)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateMatricula):
			writeError(w, http.StatusBadRequest, "Ya existe un vehículo con la matrícula: "+req.Matricula)
		case errors.Is(err, domain.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.serverError(w, r, err)
		}
		return
	}
	writeJSON(w, http.StatusCreated, toResponse(created))
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	req, ok := s.decodeVehiculo(w, r)
	if !ok {
		return
	}

	v, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Tipo de vehículo no válido: "+req.Tipo)
		return
	}

	updated, err := s.vehiculos.Update(r.Context(), id, &v)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "Vehículo no encontrado con ID: "+id)
		case errors.Is(err, domain.ErrDuplicateMatricula):
			writeError(w, http.StatusBadRequest, "Ya existe otro vehículo con la matrícula: "+req.Matricula)
		case errors.Is(err, domain.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.serverError(w, r, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, toResponse(updated))
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	removed, err := s.vehiculos.DeleteByID(r.Context(), id)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "Vehículo no encontrado con ID: "+id)
		return
	}
	writeMensaje(w, "Vehículo eliminado correctamente")
}

func (s *Server) deleteByMatricula(w http.ResponseWriter, r *http.Request) {
	matricula := chi.URLParam(r, "matricula")
	removed, err := s.vehiculos.DeleteByMatricula(r.Context(), matricula)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "Vehículo no encontrado con matrícula: "+matricula)
		return
	}
	writeMensaje(w, "Vehículo eliminado correctamente")
}

func (s *Server) porMarca(w http.ResponseWriter, r *http.Request) {
	vehiculos, err := s.vehiculos.ByMarca(r.Context(), chi.URLParam(r, "marca"))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponseList(vehiculos))
}

func (s *Server) porTipo(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "tipo")
	tipo, err := domain.ParseTipo(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Tipo de vehículo no válido: "+raw)
		return
	}

	vehiculos, err := s.vehiculos.ByTipo(r.Context(), tipo)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponseList(vehiculos))
}

func (s *Server) porAño(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "año")
	año, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "El año debe ser un número entero: "+raw)
		return
	}

	vehiculos, err := s.vehiculos.ByAñoDesde(r.Context(), año)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponseList(vehiculos))
}

func (s *Server) porRangoPrecio(w http.ResponseWriter, r *http.Request) {
	min, err := strconv.ParseFloat(r.URL.Query().Get("min"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Parámetro min no válido")
		return
	}
	max, err := strconv.ParseFloat(r.URL.Query().Get("max"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Parámetro max no válido")
		return
	}

	vehiculos, err := s.vehiculos.ByPrecioEntre(r.Context(), min, max)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponseList(vehiculos))
}

func (s *Server) count(w http.ResponseWriter, r *http.Request) {
	total, err := s.vehiculos.Count(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"total": total})
}

func (s *Server) busquedaAvanzada(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	vehiculos, err := s.vehiculos.BusquedaAvanzada(r.Context(), criteria)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponseList(vehiculos))
}

func (s *Server) estadisticas(w http.ResponseWriter, r *http.Request) {
	stats, err := s.vehiculos.Estadisticas(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEstadisticasResponse(stats))
}

// parseCriteria reads the up-to-six optional advanced-search parameters.
// Absent parameters stay absent; present ones must parse.
func parseCriteria(r *http.Request) (domain.Criteria, error) {
	q := r.URL.Query()
	c := domain.Criteria{Marca: q.Get("marca")}

	if raw := q.Get("tipo"); raw != "" {
		tipo, err := domain.ParseTipo(raw)
		if err != nil {
			return domain.Criteria{}, errors.New("Tipo de vehículo no válido: " + raw)
		}
		c.Tipo = &tipo
	}

	intParam := func(name string) (*int, error) {
		raw := q.Get(name)
		if raw == "" {
			return nil, nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.New("Parámetro " + name + " no válido: " + raw)
		}
		return &n, nil
	}
	floatParam := func(name string) (*float64, error) {
		raw := q.Get(name)
		if raw == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.New("Parámetro " + name + " no válido: " + raw)
		}
		return &f, nil
	}

	var err error
	if c.AñoMin, err = intParam("añoMin"); err != nil {
		return domain.Criteria{}, err
	}
	if c.AñoMax, err = intParam("añoMax"); err != nil {
		return domain.Criteria{}, err
	}
	if c.PrecioMin, err = floatParam("precioMin"); err != nil {
		return domain.Criteria{}, err
	}
	if c.PrecioMax, err = floatParam("precioMax"); err != nil {
		return domain.Criteria{}, err
	}
	return c, nil
}

func (s *Server) decodeVehiculo(w http.ResponseWriter, r *http.Request) (vehiculoRequest, bool) {
	var req vehiculoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Cuerpo de la petición no válido: "+err.Error())
		return vehiculoRequest{}, false
	}
	return req, true
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("database error",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, "Error interno del servidor")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, mensaje string) {
	writeJSON(w, status, map[string]string{"error": mensaje})
}

func writeMensaje(w http.ResponseWriter, mensaje string) {
	writeJSON(w, http.StatusOK, map[string]string{"mensaje": mensaje})
}
