package models

// Platform identifies an external content source
type Platform string

const (
	PlatformReddit  Platform = "reddit"
	PlatformX       Platform = "x"
	PlatformYouTube Platform = "youtube"
	PlatformRSS     Platform = "rss"
)

// ContentType represents the kind of collected content
type ContentType string

const (
	ContentTypePost  ContentType = "post"
	ContentTypeVideo ContentType = "video"
)
