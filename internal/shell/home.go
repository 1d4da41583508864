package shell

// Brand is the title of the console.
const Brand = "Park & Ride - Kadawatha"

// HomeLines is the body of the home screen.
var HomeLines = []string{
	"Park & Ride",
	"Enjoy the Travel",
	"",
	"  * Easy Parking",
	"  * CCTV Covered",
	"  * Open 24 /7",
	"",
	"Start Your Journey Now. Your Car's in Safe Hands",
}

// FooterItem is a footer label with its hover text.
type FooterItem struct {
	Label string
	Text  string
}

// Footer lists the footer entries.
var Footer = []FooterItem{
	{"Terms", "Terms and conditions apply"},
	{"Privacy", "We respect your privacy"},
	{"Contact", "sachinisilva@gmail.com"},
}

// Copyright closes the footer.
const Copyright = "2025@Park&Ride"
