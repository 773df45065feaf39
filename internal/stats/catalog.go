package stats

import "sort"

// Fields referenced directly by the engine. The rest of the catalog is only
// ever addressed by name.
const (
	GolesBoyaJugada     Field = "goles_boya_jugada"
	GolesHombreMas      Field = "goles_hombre_mas"
	GolesLanzamiento    Field = "goles_lanzamiento"
	GolesDirMas5m       Field = "goles_dir_mas_5m"
	GolesContraataque   Field = "goles_contraataque"
	GolesPenaltiAnotado Field = "goles_penalti_anotado"
	GolesRebote         Field = "goles_rebote"

	TirosFuera          Field = "tiros_fuera"
	TirosParados        Field = "tiros_parados"
	TirosBloqueado      Field = "tiros_bloqueado"
	TirosPalo           Field = "tiros_palo"
	TirosHombreMas      Field = "tiros_hombre_mas"
	TirosPenaltiFallado Field = "tiros_penalti_fallado"
	TirosContraataque   Field = "tiros_contraataque"

	PorteroTirosParadaRecup     Field = "portero_tiros_parada_recup"
	PorteroParadasFuera         Field = "portero_paradas_fuera"
	PorteroParadasPenaltiParado Field = "portero_paradas_penalti_parado"
	PorteroParadasHombreMenos   Field = "portero_paradas_hombre_menos"

	PorteroGolesBoya          Field = "portero_goles_boya"
	PorteroGolesHombreMenos   Field = "portero_goles_hombre_menos"
	PorteroGolesLanzamiento   Field = "portero_goles_lanzamiento"
	PorteroGolesDirMas5m      Field = "portero_goles_dir_mas_5m"
	PorteroGolesContraataque  Field = "portero_goles_contraataque"
	PorteroGolesPenalti       Field = "portero_goles_penalti"
	PorteroGolesRebote        Field = "portero_goles_rebote"
	PorteroGolesPropiaMeta    Field = "portero_goles_propia_meta"
	PorteroGolAnotado         Field = "portero_gol_anotado"

	GolesTotales          Field = "goles_totales"
	TirosTotales          Field = "tiros_totales"
	TirosEficiencia       Field = "tiros_eficiencia"
	GolesEficiencia       Field = "goles_eficiencia"
	PorteroParadasTotales Field = "portero_paradas_totales"
	PorteroGolesTotales   Field = "portero_goles_totales"
)

type fieldSpec struct {
	field    Field
	category Category
	// rival marks concede categories that feed the inferred rival score.
	rival bool
}

var catalog = []fieldSpec{
	{GolesBoyaJugada, CategoryGoal, false},
	{GolesHombreMas, CategoryGoal, false},
	{GolesLanzamiento, CategoryGoal, false},
	{GolesDirMas5m, CategoryGoal, false},
	{GolesContraataque, CategoryGoal, false},
	{GolesPenaltiAnotado, CategoryGoal, false},
	{GolesRebote, CategoryGoal, false},

	{TirosFuera, CategoryMiss, false},
	{TirosParados, CategoryMiss, false},
	{TirosBloqueado, CategoryMiss, false},
	{TirosPalo, CategoryMiss, false},
	{TirosHombreMas, CategoryMiss, false},
	{TirosPenaltiFallado, CategoryMiss, false},
	{TirosContraataque, CategoryMiss, false},

	{PorteroTirosParadaRecup, CategorySave, false},
	{PorteroParadasFuera, CategorySave, false},
	{PorteroParadasPenaltiParado, CategorySave, false},
	{PorteroParadasHombreMenos, CategorySave, false},

	{PorteroGolesBoya, CategoryConcede, true},
	{PorteroGolesHombreMenos, CategoryConcede, true},
	{PorteroGolesLanzamiento, CategoryConcede, true},
	{PorteroGolesDirMas5m, CategoryConcede, true},
	{PorteroGolesContraataque, CategoryConcede, true},
	{PorteroGolesPenalti, CategoryConcede, true},
	{PorteroGolesRebote, CategoryConcede, true},
	{PorteroGolesPropiaMeta, CategoryConcede, false},

	{PorteroGolAnotado, CategoryKeeperGoal, false},

	{GolesTotales, CategoryDerived, false},
	{TirosTotales, CategoryDerived, false},
	{TirosEficiencia, CategoryDerived, false},
	{GolesEficiencia, CategoryDerived, false},
	{PorteroParadasTotales, CategoryDerived, false},
	{PorteroGolesTotales, CategoryDerived, false},

	// Fouls.
	{"faltas_exp_20_1c1", CategoryOther, false},
	{"faltas_exp_20_boya", CategoryOther, false},
	{"faltas_exp_20_hombre_menos", CategoryOther, false},
	{"faltas_exp_20_contraataque", CategoryOther, false},
	{"faltas_exp_3_int", CategoryOther, false},
	{"faltas_exp_3_bruta", CategoryOther, false},
	{"faltas_exp_simultanea", CategoryOther, false},
	{"faltas_penalti", CategoryOther, false},
	{"faltas_contrafaltas", CategoryOther, false},
	{"faltas_tarjeta_amarilla", CategoryOther, false},
	{"faltas_tarjeta_roja", CategoryOther, false},

	// Field player actions.
	{"acciones_asistencias", CategoryOther, false},
	{"acciones_bloqueo", CategoryOther, false},
	{"acciones_recuperacion", CategoryOther, false},
	{"acciones_rebote", CategoryOther, false},
	{"acciones_exp_provocada", CategoryOther, false},
	{"acciones_penalti_provocado", CategoryOther, false},
	{"acciones_recibir_gol", CategoryOther, false},
	{"acciones_perdida_pos", CategoryOther, false},
	{"acciones_pase_boya", CategoryOther, false},
	{"acciones_contrafalta_provocada", CategoryOther, false},
	{"acciones_robo_boya", CategoryOther, false},
	{"acciones_defensa_hombre_menos", CategoryOther, false},
	{"acciones_ataque_hombre_mas", CategoryOther, false},

	// Goalkeeper actions and fouls.
	{"portero_acciones_asistencias", CategoryOther, false},
	{"portero_acciones_recuperacion", CategoryOther, false},
	{"portero_acciones_rebote", CategoryOther, false},
	{"portero_acciones_perdida_pos", CategoryOther, false},
	{"portero_acciones_exp_provocada", CategoryOther, false},
	{"portero_acciones_pase_largo", CategoryOther, false},
	{"portero_acciones_salida", CategoryOther, false},
	{"portero_faltas_exp_20", CategoryOther, false},
	{"portero_faltas_exp_3_int", CategoryOther, false},
	{"portero_faltas_penalti", CategoryOther, false},
	{"portero_tiros_fuera", CategoryOther, false},
	{"portero_penaltis_encarados", CategoryOther, false},

	// Sprints.
	{"sprints_disputados", CategoryOther, false},
	{"sprints_ganados", CategoryOther, false},
}

var byField = func() map[Field]fieldSpec {
	m := make(map[Field]fieldSpec, len(catalog))
	for _, spec := range catalog {
		m[spec.field] = spec
	}
	return m
}()

// Lookup resolves a wire name to a catalog field.
func Lookup(name string) (Field, bool) {
	spec, ok := byField[Field(name)]
	return spec.field, ok
}

// CategoryOf returns the derivation category of a field, or false when the
// field is not part of the catalog.
func CategoryOf(f Field) (Category, bool) {
	spec, ok := byField[f]
	return spec.category, ok
}

// IsDerived reports whether f is computed rather than entered.
func IsDerived(f Field) bool {
	return byField[f].category == CategoryDerived
}

// CountsForRival reports whether a conceded goal of this kind is part of the
// rival's inferred score.
func CountsForRival(f Field) bool {
	return byField[f].rival
}

// FieldsIn lists the fields of a category in catalog order.
func FieldsIn(c Category) []Field {
	var out []Field
	for _, spec := range catalog {
		if spec.category == c {
			out = append(out, spec.field)
		}
	}
	return out
}

// AllFields returns every catalog field sorted by name.
func AllFields() []Field {
	out := make([]Field, 0, len(catalog))
	for _, spec := range catalog {
		out = append(out, spec.field)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Template returns a fresh all-zero record containing every catalog field.
func Template() Record {
	rec := make(Record, len(catalog))
	for _, spec := range catalog {
		rec[spec.field] = 0
	}
	return rec
}
