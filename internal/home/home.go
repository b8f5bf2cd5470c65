package home

// Hero is the banner at the top of the home page
type Hero struct {
	Title    string
	Subtitle string
	ImageURL string
	ImageAlt string
}

// Feature is one "why choose us" blurb
type Feature struct {
	Title string
	Body  string
}

// Testimonial is a client quote
type Testimonial struct {
	Quote  string
	Author string
}

// CallToAction closes the page
type CallToAction struct {
	Title string
	Body  string
}

// Content is everything the home page shows
type Content struct {
	Hero              Hero
	FeaturesTitle     string
	Features          []Feature
	TestimonialsTitle string
	Testimonials      []Testimonial
	CallToAction      CallToAction
}

// Page returns the home page content. It takes no input and always returns
// an equal, freshly allocated value.
func Page() Content {
	return Content{
		Hero: Hero{
			Title:    "Welcome to Movers Solution Company",
			Subtitle: "Your reliable partner for a stress-free moving experience.",
			ImageURL: "/static/images/hero.png",
			ImageAlt: "Movers loading a truck",
		},
		FeaturesTitle: "Why Choose Us?",
		Features: []Feature{
			{
				Title: "Experienced Professionals",
				Body:  "Our team consists of experienced movers who handle your belongings with care and efficiency.",
			},
			{
				Title: "Comprehensive Services",
				Body:  "From packing to transport, we offer a full range of services to meet your moving needs.",
			},
			{
				Title: "Affordable Pricing",
				Body:  "We provide transparent and competitive pricing, with no hidden fees.",
			},
		},
		TestimonialsTitle: "What Our Clients Say",
		Testimonials: []Testimonial{
			{
				Quote:  "Movers Solution Company made my move easy and stress-free. Highly recommended!",
				Author: "Alex J.",
			},
			{
				Quote:  "Great service and friendly staff. Everything arrived on time and in perfect condition.",
				Author: "Lisa M.",
			},
		},
		CallToAction: CallToAction{
			Title: "Ready to Move?",
			Body:  "Login to schedule your next move!",
		},
	}
}
