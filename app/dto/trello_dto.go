package dto

// TrelloBoardDTO is a board the operator follows campaign work on
type TrelloBoardDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
	Desc string `json:"desc,omitempty"`
}

// TrelloListDTO is a list (column) on a board
type TrelloListDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Closed bool   `json:"closed"`
}

// TrelloBoardDetailDTO is a board together with its lists
type TrelloBoardDetailDTO struct {
	Board TrelloBoardDTO  `json:"board"`
	Lists []TrelloListDTO `json:"lists"`
}
