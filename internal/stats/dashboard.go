package stats

// Chart is one dashboard panel in a shape chart.js can consume directly.
type Chart struct {
	Title  string   `json:"title"`
	Kind   string   `json:"kind"` // bar | pie | line
	Label  string   `json:"label"`
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
	Colors []string `json:"colors"`
}

// Dashboard holds the three panels: record type, dentition type and
// specific features.
type Dashboard struct {
	Source      string `json:"source"`
	Total       int    `json:"total"`
	RecordTypes Chart  `json:"recordTypes"`
	Dentition   Chart  `json:"dentition"`
	Features    Chart  `json:"features"`
}

// BuildDashboard derives every panel from entries.
func BuildDashboard(source string, entries []Entry) Dashboard {
	return Dashboard{
		Source: source,
		Total:  len(entries),
		RecordTypes: chart("Gráfico de Colunas: Tipo de Registro", "bar", "Tipo de Registro",
			Count(entries, ByRecordType), []string{"rgba(255,99,132,0.6)", "rgba(54,162,235,0.6)"}),
		Dentition: chart("Gráfico de Pizza: Tipo de Dentição", "pie", "Tipo de Dentição",
			Count(entries, ByDentition), []string{"rgba(255, 205, 86, 0.6)", "rgba(75, 192, 192, 0.6)", "rgba(153, 102, 255, 0.6)"}),
		Features: chart("Gráfico de Linha: Características Específicas", "line", "Características Específicas",
			Count(entries, ByFeature), []string{"rgba(255,99,132,1)"}),
	}
}

func chart(title, kind, label string, c Counts, colors []string) Chart {
	return Chart{Title: title, Kind: kind, Label: label, Labels: c.Labels, Data: c.Data, Colors: colors}
}

// Sample returns the seven demonstration entries the dashboard shipped with.
func Sample() []Entry {
	return []Entry{
		{RecordType: "ante-mortem", DentitionType: "permanente", Features: []string{"coroas"}, Region: "anterior"},
		{RecordType: "post-mortem", DentitionType: "permanente", Features: []string{"implante"}, Region: "mandibula"},
		{RecordType: "ante-mortem", DentitionType: "mista", Features: []string{"restaurações"}, Region: "mandibula"},
		{RecordType: "post-mortem", DentitionType: "permanente", Features: []string{"dentes ausentes"}, Region: "mandibula"},
		{RecordType: "ante-mortem", DentitionType: "permanente", Features: []string{"implante"}, Region: "posterior"},
		{RecordType: "post-mortem", DentitionType: "permanente", Features: []string{"pontes"}, Region: "posterior"},
		{RecordType: "ante-mortem", DentitionType: "permanente", Features: []string{"dentes ausentes"}, Region: "anterior"},
	}
}
