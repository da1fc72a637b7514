package catalog

import "github.com/solaris-viz/solaris/pkg/core"

// Sizes and distances are not to scale; relative orbital periods approximate reality.
var solarSystem = []core.CelestialBody{
	{
		ID:             "sun",
		Name:           "Sun",
		Kind:           core.KindStar,
		Color:          "#fbbf24",
		VisualRadius:   40,
		Description:    "The star at the centre of the Solar System. A nearly perfect ball of hot plasma, heated to incandescence by nuclear fusion in its core.",
		Mass:           "1.989 × 10^30 kg",
		RealRadius:     "696,340 km",
		RotationPeriod: "27 days",
		TextureURL:     "https://upload.wikimedia.org/wikipedia/commons/thumb/b/b4/The_Sun_by_the_Atmospheric_Imaging_Assembly_of_NASA%27s_Solar_Dynamics_Observatory_-_20100819.jpg/512px-The_Sun_by_the_Atmospheric_Imaging_Assembly_of_NASA%27s_Solar_Dynamics_Observatory_-_20100819.jpg",
	},
	{
		ID:             "mercury",
		Name:           "Mercury",
		Kind:           core.KindPlanet,
		Color:          "#94a3b8",
		VisualRadius:   6,
		OrbitRadius:    70,
		Period:         0.24,
		Description:    "The smallest planet in the Solar System and the closest to the Sun.",
		Mass:           "3.285 × 10^23 kg",
		RealRadius:     "2,439 km",
		RotationPeriod: "58.6 days",
		TextureURL:     "https://upload.wikimedia.org/wikipedia/commons/thumb/3/30/Mercury_in_color_-_Prockter07_centered.jpg/512px-Mercury_in_color_-_Prockter07_centered.jpg",
	},
	{
		ID:             "venus",
		Name:           "Venus",
		Kind:           core.KindPlanet,
		Color:          "#fde047",
		VisualRadius:   10,
		OrbitRadius:    100,
		Period:         0.61,
		Description:    "The second planet from the Sun. It has the densest atmosphere of the four terrestrial planets.",
		Mass:           "4.867 × 10^24 kg",
		RealRadius:     "6,051 km",
		RotationPeriod: "243 days",
		TextureURL:     "https://upload.wikimedia.org/wikipedia/commons/thumb/e/e5/Venus-real_color.jpg/512px-Venus-real_color.jpg",
	},
	{
		ID:               "earth",
		Name:             "Earth",
		Kind:             core.KindPlanet,
		Color:            "#3b82f6",
		VisualRadius:     10,
		OrbitRadius:      140,
		Period:           1,
		AxialTiltDegrees: 23,
		Description:      "The third planet from the Sun and the only astronomical object known to harbour life.",
		Mass:             "5.972 × 10^24 kg",
		RealRadius:       "6,371 km",
		RotationPeriod:   "23.9 hours",
		TextureURL:       "https://upload.wikimedia.org/wikipedia/commons/thumb/9/97/The_Earth_seen_from_Apollo_17.jpg/512px-The_Earth_seen_from_Apollo_17.jpg",
		Moons: []core.CelestialBody{
			{
				ID:             "moon",
				Name:           "Moon",
				Kind:           core.KindMoon,
				Color:          "#e2e8f0",
				VisualRadius:   3,
				OrbitRadius:    18,
				Period:         0.074,
				Description:    "Earth's only natural satellite.",
				Mass:           "7.34 × 10^22 kg",
				RealRadius:     "1,737 km",
				RotationPeriod: "27.3 days",
				TextureURL:     "https://upload.wikimedia.org/wikipedia/commons/thumb/e/e1/FullMoon2010.jpg/512px-FullMoon2010.jpg",
			},
		},
	},
	{
		ID:             "mars",
		Name:           "Mars",
		Kind:           core.KindPlanet,
		Color:          "#ef4444",
		VisualRadius:   8,
		OrbitRadius:    190,
		Period:         1.88,
		Description:    "The fourth planet from the Sun and the second-smallest planet in the Solar System.",
		Mass:           "6.39 × 10^23 kg",
		RealRadius:     "3,389 km",
		RotationPeriod: "24.6 hours",
		TextureURL:     "https://upload.wikimedia.org/wikipedia/commons/thumb/0/02/OSIRIS_Mars_true_color.jpg/512px-OSIRIS_Mars_true_color.jpg",
	},
	{
		ID:             "jupiter",
		Name:           "Jupiter",
		Kind:           core.KindPlanet,
		Color:          "#d97706",
		VisualRadius:   28,
		OrbitRadius:    280,
		Period:         11.86,
		Description:    "The fifth planet from the Sun and the largest in the Solar System.",
		Mass:           "1.898 × 10^27 kg",
		RealRadius:     "69,911 km",
		RotationPeriod: "9.9 hours",
		TextureURL:     "https://upload.wikimedia.org/wikipedia/commons/thumb/e/e2/Jupiter.jpg/512px-Jupiter.jpg",
		Moons: []core.CelestialBody{
			{
				ID:             "io",
				Name:           "Io",
				Kind:           core.KindMoon,
				Color:          "#facc15",
				VisualRadius:   2.5,
				OrbitRadius:    34,
				Period:         0.0048,
				Description:    "The innermost of Jupiter's four Galilean moons.",
				Mass:           "8.93 × 10^22 kg",
				RealRadius:     "1,821 km",
				RotationPeriod: "1.77 days",
				TextureURL:     "https://upload.wikimedia.org/wikipedia/commons/thumb/7/7b/Io_highest_resolution_true_color.jpg/512px-Io_highest_resolution_true_color.jpg",
			},
			{
				ID:             "europa",
				Name:           "Europa",
				Kind:           core.KindMoon,
				Color:          "#fef08a",
				VisualRadius:   2.2,
				OrbitRadius:    39,
				Period:         0.0097,
				Description:    "The smallest of Jupiter's four Galilean moons.",
				Mass:           "4.80 × 10^22 kg",
				RealRadius:     "1,560 km",
				RotationPeriod: "3.55 days",
				TextureURL:     "https://upload.wikimedia.org/wikipedia/commons/thumb/5/54/Europa-moon.jpg/512px-Europa-moon.jpg",
			},
			{
				ID:             "ganymede",
				Name:           "Ganymede",
				Kind:           core.KindMoon,
				Color:          "#a8a29e",
				VisualRadius:   3.5,
				OrbitRadius:    46,
				Period:         0.019,
				Description:    "The largest and most massive moon in the Solar System.",
				Mass:           "1.48 × 10^23 kg",
				RealRadius:     "2,634 km",
				RotationPeriod: "7.15 days",
				TextureURL:     "https://upload.wikimedia.org/wikipedia/commons/thumb/2/22/Ganymede_-_Voyager_2_-_Color_Mosaic.jpg/800px-Ganymede_-_Voyager_2_-_Color_Mosaic.jpg",
			},
			{
				ID:             "callisto",
				Name:           "Callisto",
				Kind:           core.KindMoon,
				Color:          "#78716c",
				VisualRadius:   3.2,
				OrbitRadius:    54,
				Period:         0.045,
				Description:    "Jupiter's second-largest moon and the third-largest moon in the Solar System.",
				Mass:           "1.07 × 10^23 kg",
				RealRadius:     "2,410 km",
				RotationPeriod: "16.7 days",
				TextureURL:     "https://upload.wikimedia.org/wikipedia/commons/thumb/d/d2/Callisto_-_Galileo_Global_Mosaic.jpg/800px-Callisto_-_Galileo_Global_Mosaic.jpg",
			},
		},
	},
	{
		ID:               "saturn",
		Name:             "Saturn",
		Kind:             core.KindPlanet,
		Color:            "#f59e0b",
		VisualRadius:     24,
		OrbitRadius:      390,
		Period:           29.45,
		AxialTiltDegrees: 27,
		Description:      "The sixth planet from the Sun and the second largest, famous for its ring system.",
		Mass:             "5.683 × 10^26 kg",
		RealRadius:       "58,232 km",
		RotationPeriod:   "10.7 hours",
		TextureURL:       "https://upload.wikimedia.org/wikipedia/commons/thumb/1/19/Cylindrical_Map_of_Saturn.jpg/800px-Cylindrical_Map_of_Saturn.jpg",
		Rings: &core.RingGeometry{
			InnerRadius: 26,
			OuterRadius: 42,
			Color:       "#c2a176",
			Opacity:     0.8,
		},
		Moons: []core.CelestialBody{
			{
				ID:             "titan",
				Name:           "Titan",
				Kind:           core.KindMoon,
				Color:          "#fbbf24",
				VisualRadius:   3.5,
				OrbitRadius:    60,
				Period:         0.044,
				Description:    "Saturn's largest moon and the second-largest natural satellite in the Solar System.",
				Mass:           "1.345 × 10^23 kg",
				RealRadius:     "2,574 km",
				RotationPeriod: "15.9 days",
				TextureURL:     "https://upload.wikimedia.org/wikipedia/commons/thumb/4/45/Titan_in_true_color.jpg/512px-Titan_in_true_color.jpg",
			},
		},
	},
	{
		ID:             "uranus",
		Name:           "Uranus",
		Kind:           core.KindPlanet,
		Color:          "#22d3ee",
		VisualRadius:   16,
		OrbitRadius:    490,
		Period:         84,
		Description:    "The seventh planet from the Sun, third-largest by radius and fourth by mass.",
		Mass:           "8.681 × 10^25 kg",
		RealRadius:     "25,362 km",
		RotationPeriod: "17.2 hours",
		TextureURL:     "https://upload.wikimedia.org/wikipedia/commons/thumb/3/3d/Uranus2.jpg/512px-Uranus2.jpg",
	},
	{
		ID:             "neptune",
		Name:           "Neptune",
		Kind:           core.KindPlanet,
		Color:          "#3b82f6",
		VisualRadius:   16,
		OrbitRadius:    590,
		Period:         164.8,
		Description:    "The farthest known planet from the Sun.",
		Mass:           "1.024 × 10^26 kg",
		RealRadius:     "24,622 km",
		RotationPeriod: "16.1 hours",
		TextureURL:     "https://upload.wikimedia.org/wikipedia/commons/thumb/6/63/Neptune_-_Voyager_2_%2829347980845%29_flatten_crop.jpg/512px-Neptune_-_Voyager_2_%2829347980845%29_flatten_crop.jpg",
	},
}

// Default returns the built-in solar system.
func Default() *Catalog {
	c, err := New(solarSystem)
	if err != nil {
		// The built-in data is covered by tests.
		panic(err)
	}
	return c
}
