package model

type Service struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceRange  string `json:"price_range"`
	Duration    string `json:"duration"`
}

var catalog = []Service{
	{ID: 1, Name: "Residential Moving", Description: "Apartments, condos and houses, including furniture and appliances.", PriceRange: "$150 - $1,500+", Duration: "Same day - 2 days"},
	{ID: 2, Name: "Office & Commercial Moving", Description: "Desks, IT equipment and modular offices.", PriceRange: "$500 - $10,000+", Duration: "1-5 days"},
	{ID: 3, Name: "Packing & Unpacking", Description: "Packing and unpacking with quality materials.", PriceRange: "$100 - $1,200+", Duration: "2-8 hours"},
	{ID: 4, Name: "Truck & Driver Rental", Description: "A truck with a professional driver.", PriceRange: "$80/hr - $200/hr", Duration: "Hourly / Daily"},
	{ID: 5, Name: "Long Distance Moving", Description: "Intercity moves with door-to-door service.", PriceRange: "$1,200 - $10,000+", Duration: "1-7 days"},
	{ID: 6, Name: "Junk Removal & Disposal", Description: "Clean-outs and responsible disposal.", PriceRange: "$75 - $1,000+", Duration: "Same day"},
}

// Services returns a copy of the closed set of bookable services.
func Services() []Service {
	return append([]Service(nil), catalog...)
}

func ServiceByID(id int) (Service, bool) {
	for _, s := range catalog {
		if s.ID == id {
			return s, true
		}
	}
	return Service{}, false
}
