package search

type SearchQuery struct {
	Query  string  `query:"q" json:"q" validate:"max=100"`
	Kind   *string `query:"kind" json:"kind,omitempty" validate:"omitempty,oneof=annotation article entry letter post topic"`
	Limit  int     `query:"limit" json:"limit,omitempty" default:"20" validate:"min=1,max=100"`
	Offset int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
}

type SearchResponse struct {
	Results []*Result `json:"results"`
	Total   int       `json:"total"`
}
