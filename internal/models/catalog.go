package models

// MerchItem товар витрины.
type MerchItem struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Images      []string `json:"images"`
	Description string   `json:"description"`
	Sizes       []string `json:"sizes,omitempty"`
	Colors      []string `json:"colors,omitempty"`
	Rating      float64  `json:"rating"`
	Reviews     int      `json:"reviews"`
}

// Event VIP-событие, на которое можно забронировать место.
type Event struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Date  string `json:"date"`
	Time  string `json:"time"`
	Venue string `json:"venue"`
	Image string `json:"image"`
}

// Interview интервью в выпуске радиоархива.
type Interview struct {
	Artist   string `json:"artist"`
	Duration string `json:"duration"`
	VideoURL string `json:"video_url"`
}

// Show выпуск радиоархива.
type Show struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Date        string      `json:"date"`
	Duration    string      `json:"duration"`
	Description string      `json:"description"`
	AudioURL    string      `json:"audio_url"`
	VideoURL    string      `json:"video_url,omitempty"`
	HasExtended bool        `json:"has_extended"`
	MixtapeURL  string      `json:"mixtape_url,omitempty"`
	Interviews  []Interview `json:"interviews"`
}

// Mixtape подборка со ссылкой.
type Mixtape struct {
	Name          string `json:"name"`
	ImageURL      string `json:"image_url"`
	ShortenedLink string `json:"shortened_link"`
}

// Song песня для голосования в прямом эфире.
type Song struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Votes  int64  `json:"votes"`
}
