package catalog

var availableFeatures = []string{
	"Quick Shifter",
	"Riding Modes",
	"Traction Control",
	"ABS",
	"LED Lights",
	"DCT",
	"Cruise Control",
	"Tubeless Tires",
	"Storage Compartment",
	"Navigation",
	"Electric Start",
	"USB Charging",
	"Digital Meter",
}

func km(v float64) *float64 { return &v }

func imagePath(id string) string {
	return "/images/bikes/" + id + ".webp"
}

func seedVehicles() []Vehicle {
	return []Vehicle{
		// Scooters
		{ID: "activa6g", Name: "Activa 6G", Category: CategoryScooter, Price: 74500, EngineSize: 110, Power: 8, Weight: 107, Mileage: km(60),
			Features: []string{"LED Lights", "Electric Start", "USB Charging", "Storage Compartment"}, Image: imagePath("activa6g"), Year: 2023},
		{ID: "dio", Name: "Dio", Category: CategoryScooter, Price: 69900, EngineSize: 110, Power: 8, Weight: 105, Mileage: km(55),
			Features: []string{"LED Lights", "Electric Start", "Storage Compartment"}, Image: imagePath("dio"), Year: 2023},
		{ID: "pcx160", Name: "PCX160", Category: CategoryScooter, Price: 179900, EngineSize: 160, Power: 16, Weight: 129, Mileage: km(48),
			Features: []string{"LED Lights", "Smart Key", "Storage Compartment", "USB Charging"}, Image: imagePath("pcx160"), Year: 2023, IsNew: true},
		{ID: "activa125", Name: "Activa 125", Category: CategoryScooter, Price: 97500, EngineSize: 125, Power: 8, Weight: 111, Mileage: km(55),
			Features: []string{"Smart Power (eSP)", "LED Headlamp", "Mobile Charging Socket"}, Image: imagePath("activa125"), Year: 2023},
		{ID: "dio125", Name: "Dio 125", Category: CategoryScooter, Price: 90900, EngineSize: 125, Power: 8, Weight: 107, Mileage: km(52),
			Features: []string{"Fully Digital Meter", "LED Lights", "USB Charging"}, Image: imagePath("dio125"), Year: 2023},

		// Sport
		{ID: "cbr1000rr", Name: "CBR1000RR Fireblade", Category: CategorySport, Price: 1800000, EngineSize: 999, Power: 214, Weight: 201,
			Features: []string{"Quick Shifter", "Riding Modes", "Traction Control", "ABS", "LED Lights", "Digital Meter"}, Image: imagePath("cbr1000rr"), Year: 2023, IsNew: true},
		{ID: "cbr600rr", Name: "CBR600RR", Category: CategorySport, Price: 1200000, EngineSize: 599, Power: 119, Weight: 194,
			Features: []string{"Quick Shifter", "Riding Modes", "ABS", "LED Lights"}, Image: imagePath("cbr600rr"), Year: 2023},
		{ID: "cbr500r", Name: "CBR500R", Category: CategorySport, Price: 499000, EngineSize: 471, Power: 47, Weight: 192, Mileage: km(28),
			Features: []string{"ABS", "LED Lights", "Digital Meter", "Tubeless Tires"}, Image: imagePath("cbr500r"), Year: 2022},

		// Adventure
		{ID: "africatwin", Name: "Africa Twin", Category: CategoryAdventure, Price: 1635000, EngineSize: 1084, Power: 100, Weight: 226,
			Features: []string{"Riding Modes", "Traction Control", "ABS", "DCT", "Cruise Control", "LED Lights"}, Image: imagePath("africatwin"), Year: 2023, IsNew: true},
		{ID: "nc750x", Name: "NC750X", Category: CategoryAdventure, Price: 899000, EngineSize: 745, Power: 58, Weight: 214, Mileage: km(28),
			Features: []string{"DCT", "ABS", "Storage Compartment", "LED Lights", "Riding Modes"}, Image: imagePath("nc750x"), Year: 2022},
		{ID: "cb500x", Name: "CB500X", Category: CategoryAdventure, Price: 629000, EngineSize: 471, Power: 47, Weight: 199, Mileage: km(27),
			Features: []string{"ABS", "LED Lights", "Tubeless Tires"}, Image: imagePath("cb500x"), Year: 2022},

		// Cruiser
		{ID: "rebel1100", Name: "Rebel 1100", Category: CategoryCruiser, Price: 1150000, EngineSize: 1084, Power: 86, Weight: 223,
			Features: []string{"DCT", "Cruise Control", "Riding Modes", "ABS", "LED Lights"}, Image: imagePath("rebel1100"), Year: 2023},
		{ID: "rebel500", Name: "Rebel 500", Category: CategoryCruiser, Price: 545000, EngineSize: 471, Power: 46, Weight: 191, Mileage: km(27),
			Features: []string{"ABS", "LED Lights", "Digital Meter"}, Image: imagePath("rebel500"), Year: 2023},
		{ID: "rebel300", Name: "Rebel 300", Category: CategoryCruiser, Price: 329000, EngineSize: 286, Power: 27, Weight: 170, Mileage: km(30),
			Features: []string{"ABS", "LED Lights"}, Image: imagePath("rebel300"), Year: 2022},

		// Touring
		{ID: "goldwing", Name: "Gold Wing Tour", Category: CategoryTouring, Price: 2950000, EngineSize: 1833, Power: 125, Weight: 390,
			Features: []string{"DCT", "Cruise Control", "Navigation", "Riding Modes", "ABS", "USB Charging", "Electric Start"}, Image: imagePath("goldwing"), Year: 2023, IsNew: true},
		{ID: "nt1100", Name: "NT1100", Category: CategoryTouring, Price: 1180000, EngineSize: 1084, Power: 100, Weight: 238,
			Features: []string{"DCT", "Cruise Control", "Riding Modes", "Traction Control", "USB Charging"}, Image: imagePath("nt1100"), Year: 2023},

		// Naked
		{ID: "cb1000r", Name: "CB1000R", Category: CategoryNaked, Price: 1700000, EngineSize: 998, Power: 143, Weight: 213,
			Features: []string{"Quick Shifter", "Riding Modes", "Traction Control", "ABS", "LED Lights"}, Image: imagePath("cb1000r"), Year: 2023},
		{ID: "cb650r", Name: "CB650R", Category: CategoryNaked, Price: 925000, EngineSize: 649, Power: 94, Weight: 202,
			Features: []string{"ABS", "LED Lights", "Traction Control", "Digital Meter"}, Image: imagePath("cb650r"), Year: 2023},
		{ID: "cb300r", Name: "CB300R", Category: CategoryNaked, Price: 277000, EngineSize: 286, Power: 31, Weight: 143, Mileage: km(35),
			Features: []string{"ABS", "LED Lights", "Digital Meter"}, Image: imagePath("cb300r"), Year: 2022},
	}
}
