// Package catalog хранит статический контент сайта: товары, события,
// выпуски радиоархива, подборки и песни для голосования в эфире.
//
// Все функции возвращают копии, поэтому вызывающий код может свободно
// изменять полученные срезы.
package catalog

import (
	"slices"
	"strings"

	"github.com/magabrotheeeer/coffeehouse/internal/lib/apperr"
	"github.com/magabrotheeeer/coffeehouse/internal/models"
)

// Фильтры радиоархива.
const (
	FilterAll        = "all"
	FilterExtended   = "extended"
	FilterMixtapes   = "mixtapes"
	FilterInterviews = "interviews"
)

const imageBase = "https://raw.githubusercontent.com/myblackbeanca/regcoffee/refs/heads/main/"

var merch = []models.MerchItem{
	{
		ID:          1,
		Name:        "Classic Coffee House Tee",
		Price:       29.99,
		Images:      []string{imageBase + "regtee.png"},
		Description: "100% organic cotton tee with vintage radio design",
		Sizes:       []string{"S", "M", "L", "XL", "2XL"},
		Colors:      []string{"Black", "Navy", "Heather Gray"},
		Rating:      4.8,
		Reviews:     124,
	},
	{
		ID:          2,
		Name:        "Limited Edition Vinyl",
		Price:       34.99,
		Images:      []string{imageBase + "rgvinyl.png"},
		Description: "Exclusive compilation of live sessions",
		Rating:      5.0,
		Reviews:     89,
	},
	{
		ID:          3,
		Name:        "Coffee House Hoodie",
		Price:       49.99,
		Images:      []string{imageBase + "regsweat.png"},
		Description: "Premium cotton blend hoodie with embroidered logo",
		Sizes:       []string{"S", "M", "L", "XL"},
		Colors:      []string{"Black", "Gray"},
		Rating:      4.9,
		Reviews:     156,
	},
}

// Товары из личного кабинета, id не пересекаются с публичной витриной.
var memberMerch = []models.MerchItem{
	{
		ID:          101,
		Name:        "Reg's Artisanal Coffee",
		Price:       19.99,
		Images:      []string{imageBase + "regcoffee.png"},
		Description: "Premium roasted coffee blend",
	},
	{
		ID:          102,
		Name:        "Reg's Coffee House Tote Bag",
		Price:       24.99,
		Images:      []string{imageBase + "regtote.png"},
		Description: "Eco-friendly canvas tote",
	},
	{
		ID:          103,
		Name:        "Reg's Xmas Mystery Box",
		Price:       49.99,
		Images:      []string{imageBase + "rgxmas.png"},
		Description: "Limited edition holiday surprise (Pre-order)",
	},
}

var events = []models.Event{
	{
		ID:    1,
		Name:  "Birmingham Bulls vs. Pensacola Ice Flyers",
		Date:  "Dec 5",
		Time:  "7:00 PM",
		Venue: "The Pelham Civic Complex",
		Image: "https://images.unsplash.com/photo-1515703407324-5f753afd8be8?auto=format&fit=crop&w=2000&q=80",
	},
	{
		ID:    2,
		Name:  "Birmingham Bulls vs Evansville Thunderbolts",
		Date:  "Dec 6",
		Time:  "7:00 PM",
		Venue: "Birmingham Barons",
		Image: "https://images.unsplash.com/photo-1580748141549-71748dbe0bdc?auto=format&fit=crop&w=2000&q=80",
	},
	{
		ID:    3,
		Name:  "The Wood Brothers",
		Date:  "Dec 8",
		Time:  "8:00 PM",
		Venue: "Iron City",
		Image: "https://images.unsplash.com/photo-1501612780327-45045538702b?auto=format&fit=crop&w=2000&q=80",
	},
}

var shows = []models.Show{
	{
		ID:          "show-1",
		Title:       "Reg's Coffee House - Holiday Special",
		Date:        "2023-12-24",
		Duration:    "2:00:00",
		Description: "A festive blend of holiday tunes and winter favorites, featuring exclusive interviews with The Wood Brothers and Ben Folds.",
		AudioURL:    "https://storage.example.com/shows/holiday-special.mp3",
		VideoURL:    "https://player.vimeo.com/video/1026519121",
		HasExtended: true,
		MixtapeURL:  "https://go.minyvinyl.com/holiday-mix",
		Interviews: []models.Interview{
			{Artist: "The Wood Brothers", Duration: "45:00", VideoURL: "https://player.vimeo.com/video/1026519121"},
			{Artist: "Ben Folds", Duration: "30:00", VideoURL: "https://player.vimeo.com/video/1026519121"},
		},
	},
	{
		ID:          "show-2",
		Title:       "Indie Spotlight: New Discoveries",
		Date:        "2023-12-17",
		Duration:    "1:45:00",
		Description: "Exploring the best new indie releases, featuring an extended interview with Joy Oladokun about her creative process.",
		AudioURL:    "https://storage.example.com/shows/indie-spotlight.mp3",
		VideoURL:    "https://player.vimeo.com/video/1034035101",
		HasExtended: true,
		MixtapeURL:  "https://go.minyvinyl.com/indie-dec",
		Interviews: []models.Interview{
			{Artist: "Joy Oladokun", Duration: "40:00", VideoURL: "https://player.vimeo.com/video/1034035101"},
		},
	},
	{
		ID:          "show-3",
		Title:       "Coffee House Classics",
		Date:        "2023-12-10",
		Duration:    "2:15:00",
		Description: "A journey through timeless coffee house favorites, with special guest Kathleen Edwards sharing stories behind her music.",
		AudioURL:    "https://storage.example.com/shows/classics.mp3",
		VideoURL:    "https://player.vimeo.com/video/1033249955",
		HasExtended: true,
		MixtapeURL:  "https://go.minyvinyl.com/classics-dec",
		Interviews: []models.Interview{
			{Artist: "Kathleen Edwards", Duration: "35:00", VideoURL: "https://player.vimeo.com/video/1033249955"},
		},
	},
}

const mixtapeImageBase = "https://firebasestorage.googleapis.com/v0/b/subway-musician-564bd.appspot.com/o/aminy-generation%2F"

var homepageMixtapes = []models.Mixtape{
	{Name: "reg coffe rec", ImageURL: mixtapeImageBase + "miny-2670b158-b5bc-49d4-a574-7b7cf333448a?alt=media", ShortenedLink: "https://go.minyvinyl.com/drivemix"},
	{Name: "reg's coffee house nov", ImageURL: mixtapeImageBase + "miny-8136b20f-c2f2-422f-8f36-1c14ae58580d?alt=media", ShortenedLink: "https://go.minyvinyl.com/novseventeen"},
	{Name: "reg's emerging picks", ImageURL: mixtapeImageBase + "miny-b97ee15f-5b58-4f34-b818-a72b5c22110c?alt=media", ShortenedLink: "https://go.minyvinyl.com/regemerging"},
}

var exclusiveMixtapes = []models.Mixtape{
	{Name: "reg's october selects", ImageURL: mixtapeImageBase + "miny-d0ea7c9a-9fb5-4b15-9e59-920d87a3c4f7?alt=media", ShortenedLink: "https://go.minyvinyl.com/octselect"},
	{Name: "reg's eclectic", ImageURL: mixtapeImageBase + "miny-5de45442-f132-48a9-ac48-e8c0ce109b84?alt=media", ShortenedLink: "https://go.minyvinyl.com/regeclec"},
	{Name: "reg's annie edition", ImageURL: mixtapeImageBase + "miny-92fda9e1-d7b6-4263-9ce8-4a64e40491c9?alt=media", ShortenedLink: "https://go.minyvinyl.com/regannie"},
}

var songs = []models.Song{
	{ID: 1, Title: "Lost in a Crowd", Artist: "Fantastic Negrito", Votes: 15},
	{ID: 2, Title: "Stay Alive", Artist: "Mustafa", Votes: 12},
	{ID: 3, Title: "Everybody Wants to Rule the World", Artist: "Tears for Fears", Votes: 8},
	{ID: 4, Title: "Breathe Again", Artist: "Joy Oladokun", Votes: 7},
	{ID: 5, Title: "Reggae Fever", Artist: "The Silverlites", Votes: 6},
	{ID: 6, Title: "Surefire", Artist: "Wilderado", Votes: 5},
}

// Merch возвращает товары публичной витрины.
func Merch() []models.MerchItem { return slices.Clone(merch) }

// MemberMerch возвращает товары, доступные в личном кабинете.
func MemberMerch() []models.MerchItem { return slices.Clone(memberMerch) }

// FindMerch ищет товар по id в обеих витринах.
func FindMerch(id int) (models.MerchItem, bool) {
	for _, items := range [][]models.MerchItem{merch, memberMerch} {
		for _, item := range items {
			if item.ID == id {
				return item, true
			}
		}
	}
	return models.MerchItem{}, false
}

// Events возвращает предстоящие VIP-события.
func Events() []models.Event { return slices.Clone(events) }

// FindEvent ищет событие по id.
func FindEvent(id int) (models.Event, bool) {
	for _, e := range events {
		if e.ID == id {
			return e, true
		}
	}
	return models.Event{}, false
}

// Shows возвращает все выпуски радиоархива.
func Shows() []models.Show { return slices.Clone(shows) }

// FilterShows отбирает выпуски по подстроке в названии (без учёта регистра)
// и фильтру all|extended|mixtapes|interviews. Пустой фильтр равен all.
func FilterShows(query, filter string) ([]models.Show, error) {
	const op = "catalog.FilterShows"
	if filter == "" {
		filter = FilterAll
	}
	switch filter {
	case FilterAll, FilterExtended, FilterMixtapes, FilterInterviews:
	default:
		return nil, apperr.Validation(op, "unknown filter "+filter)
	}

	query = strings.ToLower(strings.TrimSpace(query))
	result := make([]models.Show, 0, len(shows))
	for _, show := range shows {
		if !strings.Contains(strings.ToLower(show.Title), query) {
			continue
		}
		switch {
		case filter == FilterExtended && !show.HasExtended:
			continue
		case filter == FilterMixtapes && show.MixtapeURL == "":
			continue
		case filter == FilterInterviews && len(show.Interviews) == 0:
			continue
		}
		result = append(result, show)
	}
	return result, nil
}

// HomepageMixtapes подборки для главной страницы.
func HomepageMixtapes() []models.Mixtape { return slices.Clone(homepageMixtapes) }

// ExclusiveMixtapes подборки только для подписчиков.
func ExclusiveMixtapes() []models.Mixtape { return slices.Clone(exclusiveMixtapes) }

// Songs возвращает песни эфира с начальным числом голосов.
func Songs() []models.Song { return slices.Clone(songs) }

// FindSong ищет песню по id.
func FindSong(id int) (models.Song, bool) {
	for _, s := range songs {
		if s.ID == id {
			return s, true
		}
	}
	return models.Song{}, false
}
