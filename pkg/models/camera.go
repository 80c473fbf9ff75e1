package models

// Camera is an enabled monitor reduced to what a viewer needs.
type Camera struct {
	ID       int    `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Sequence int    `json:"sequence" yaml:"sequence"`
	ImageURL string `json:"imageUrl" yaml:"imageUrl"`
}
