package region

// Fallback is used when the area tree cannot be fetched.
var Fallback = []Node{
	{ID: "113", Name: "Россия", Areas: []Node{
		{ID: "1", Name: "Москва"},
		{ID: "2", Name: "Санкт-Петербург"},
		{ID: "3", Name: "Екатеринбург"},
		{ID: "4", Name: "Новосибирск"},
		{ID: "53", Name: "Краснодар"},
		{ID: "66", Name: "Нижний Новгород"},
		{ID: "76", Name: "Ростов-на-Дону"},
		{ID: "78", Name: "Самара"},
		{ID: "88", Name: "Казань"},
	}},
}
