package domain

// Criteria holds the optional predicates of the advanced search. Nil
// pointers (and an empty Marca) mean "absent". A range dimension only
// participates when both of its bounds are present.
type Criteria struct {
	Marca     string
	Tipo      *TipoVehiculo
	AñoMin    *int
	AñoMax    *int
	PrecioMin *float64
	PrecioMax *float64
}

// HasMarca reports whether the marca equality predicate participates.
func (c Criteria) HasMarca() bool { return c.Marca != "" }

// HasAñoRange reports whether both year bounds are present.
func (c Criteria) HasAñoRange() bool { return c.AñoMin != nil && c.AñoMax != nil }

// HasPrecioRange reports whether both price bounds are present.
func (c Criteria) HasPrecioRange() bool { return c.PrecioMin != nil && c.PrecioMax != nil }

// Empty reports whether no predicate participates, in which case the
// composed query is the unrestricted listing.
func (c Criteria) Empty() bool {
	return !c.HasMarca() && c.Tipo == nil && !c.HasAñoRange() && !c.HasPrecioRange()
}
