package rules

// Default returns the built-in rule and preset tables. These are the
// author-curated layering experiments the whole tool grew out of; a rule
// file on disk replaces them entirely.
func Default() Table {
	t := Table{
		Presets: []Preset{
			{
				Names:         []string{"Mancera French Riviera", "Juliette has a gun Vanilla Vibes"},
				Compatibility: 85,
				Vibe:          "Пляжный вайб с увлажняющим кремом и лёгкой ванильной сладостью 🏖️🧴",
				Risks: []string{
					"JHAG сразу уменьшает бьющий цитрусовый аромат Mancera",
					"Цветочные ноты Mancera становятся ярче",
					"В итоге — ощущение увлажняющего крема, без намёка на сладость JHAG",
				},
				Tips: []string{
					"Порядок: сначала Mancera French Riviera, сверху Vanilla Vibes",
					"Пропорции: примерно 1:1 (с уклоном на Mancera из-за разных пульверизаторов)",
					"Итог: не 'мусорный' запах, но ожидал большего",
				},
			},
			{
				Names:         []string{"Givenchy Gentleman Reserve Privee", "Dior Homme Intense"},
				Compatibility: 70,
				Vibe:          "Сильная сухая пудровость с древесиной на фоне 🍂✨",
				Risks: []string{
					"Древесные ноты становятся главенствующими и перебивают всё остальное",
					"Отсутствует гурманская нотка от Givenchy",
					"Просыпается сушняк в горле от сухости",
				},
				Tips: []string{
					"Порядок: сначала Dior Homme Intense, сверху Givenchy",
					"Пропорции: 1:1",
					"Итог: база более выраженная, верхние этапы пропущены",
				},
			},
			{
				Names:         []string{"Paco Rabanne Pure XS", "Dior Homme Intense 2011"},
				Compatibility: 90,
				Vibe:          "Дорогая библиотека с алкоголем и девушками в макияже 📚🥃💄",
				Risks: []string{
					"Сильная пудра Dior может ужимать сладость Pure XS",
					"Легко переборщить — стать слишком сладким",
				},
				Tips: []string{
					"Порядок: сначала Pure XS, сверху Dior Homme Intense 2011",
					"Пропорции: 2:1 (больше Pure XS, чтобы сладость играла ярче)",
					"Итог: пудровые ароматы с гурманикой заходят на ура (зависит от ноты сладости)",
				},
			},
			{
				Names:         []string{"Fakhar Lattafa", "Juliette has a gun Vanilla Vibes"},
				Compatibility: 80,
				Vibe:          "Процесс готовки сладкой ягодной выпечки с 'французской ванилью' 🧁🍓",
				Risks: []string{
					"Синтетика JHAG + дешевизна Lattafa = сильный аромат спирта в начале",
					"Ваниль становится более кондитерской, чем воздушной",
				},
				Tips: []string{
					"Порядок: сначала JHAG Vanilla Vibes (2 пшика), сверху Fakhar Lattafa",
					"Пропорции: 1:2 (больше JHAG)",
					"Итог: работает не сразу, но через время — оригинальный аромат",
				},
			},
			{
				Names:         []string{"Fakhar Lattafa", "Versace Dylan Blue"},
				Compatibility: 75,
				Vibe:          "Versace Dylan Blue, но без выделяющегося перца и смородины — более унисекс 🌊🌸",
				Risks: []string{
					"Цитрусовый старт может дать горечь",
					"Чёрный перец смягчается цветочным ароматом",
				},
				Tips: []string{
					"Порядок: сначала Versace Dylan Blue, сверху Fakhar Lattafa",
					"Пропорции: 1:1",
					"Итог: делает Dylan Blue более универсальным по гендеру, но не оригинальнее",
				},
			},
		},
		Positive: []ScoreRule{
			{
				Keywords: []string{"пудровый", "гурман"},
				Bonus:    95,
				Vibe:     "Пудровые ароматы + гурманская сладость = идеальный уютный микс 🍮✨",
				Risk:     "зависит от типа сладости (тофи/ваниль — лучше, виски — может сушить)",
			},
			{
				Keywords: []string{"цветочный", "перец"},
				Bonus:    90,
				Vibe:     "Цветы смягчают остроту перца → элегантный и мягкий результат 🌸🌶️",
			},
			{
				Keywords: []string{"свежий", "ваниль"},
				Bonus:    85,
				Vibe:     "Свежий старт + ванильная база = летний десерт на пляже 🏖️🍦",
				Risk:     "может быть спиртовой старт, если один из ароматов бюджетный",
			},
			{
				Keywords: []string{"водный", "восточный"},
				Bonus:    80,
				Vibe:     "Водные ноты + восточные специи = морской бриз с пряностями 🌊🍂",
			},
			{
				// Authored as "мускус + любой": musk pairs with anything,
				// so the table entry keys on musk alone.
				Keywords: []string{"мускус"},
				Bonus:    90,
				Vibe:     "Мускус усиливает стойкость и делает микс 'кожным' 🧴",
			},
		},
		Risks: []RiskRule{
			{
				Keywords:    []string{"синтетика", "дешевизна"},
				Description: "Сильный спиртовой старт в начале — подожди 5–10 минут",
			},
			{
				Keywords:    []string{"два тяжелых", "база"},
				Description: "База может перебить верхние ноты — один аромат станет доминировать",
			},
			{
				Keywords:    []string{"гурман", "виски"},
				Description: "Алкогольная сладость может дать сухость и горечь",
			},
		},
	}
	t.normalize()
	return t
}
