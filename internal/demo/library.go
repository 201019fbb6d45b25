// Package demo holds the sample library and the guided walkthrough used by
// the seed and demo commands.
package demo

// SampleBook is a book to seed.
type SampleBook struct {
	Title   string
	Content string
}

// SampleAuthor is an author to seed together with their books.
type SampleAuthor struct {
	Name  string
	Email string
	Books []SampleBook
}

// Library returns the default seed data.
func Library() []SampleAuthor {
	return []SampleAuthor{
		{
			Name:  "Dr. Sillypants",
			Email: "SillyPants@gmail.com",
			Books: []SampleBook{
				{Title: "The Adventures of Sillypants", Content: "A tale of wacky adventures and nonsensical escapades."},
				{Title: "Sillypants Strikes Again", Content: "More absurd adventures with Dr. Sillypants."},
			},
		},
		{
			Name:  "Captain Quirk",
			Email: "CaptainQ@gmail.com",
			Books: []SampleBook{
				{Title: "Quirk's Quirky Quests", Content: "Join Captain Quirk on his bizarre and whimsical journeys."},
				{Title: "Quirk's Quirky Quests: The Sequel", Content: "Captain Quirk's even quirkier quests continue."},
			},
		},
		{
			Name:  "Professor Wobble",
			Email: "ProWob@gmail.com",
			Books: []SampleBook{
				{Title: "Wobble's Wacky World", Content: "Explore the eccentric world of Professor Wobble."},
				{Title: "Wobble's Wacky World: Part Two", Content: "Professor Wobble's world gets even wackier."},
			},
		},
	}
}

// Classics returns a second, larger data set used by the walkthrough.
func Classics() []SampleAuthor {
	return []SampleAuthor{
		{
			Name:  "J.K. Rowling",
			Email: "jk@hogwarts.com",
			Books: []SampleBook{
				{Title: "Harry Potter", Content: "A young wizard's journey..."},
			},
		},
		{
			Name:  "Stephen King",
			Email: "stephen@horror.com",
			Books: []SampleBook{
				{Title: "The Shining", Content: "A horror story..."},
			},
		},
		{
			Name:  "Agatha Christie",
			Email: "agatha@mystery.com",
			Books: []SampleBook{
				{Title: "Murder on the Orient Express", Content: "A mystery unfolds..."},
			},
		},
	}
}
