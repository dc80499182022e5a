// Package gapmindertest provides small in-memory datasets for tests.
package gapmindertest

import "github.com/san-kum/gapdash/internal/gapminder"

// Years are the years covered by Sample.
var Years = []int{1952, 1957, 2007}

// Sample returns a six-country, three-year dataset with one country per
// continent except Asia, which has two.
func Sample() *gapminder.Dataset {
	return gapminder.New([]gapminder.Record{
		{Country: "Afghanistan", Continent: "Asia", Year: 1952, LifeExp: 28.801, Pop: 8425333, GdpPercap: 779.4453145},
		{Country: "China", Continent: "Asia", Year: 1952, LifeExp: 44.0, Pop: 556263527, GdpPercap: 400.448611},
		{Country: "Germany", Continent: "Europe", Year: 1952, LifeExp: 67.5, Pop: 69145952, GdpPercap: 7144.114393},
		{Country: "Nigeria", Continent: "Africa", Year: 1952, LifeExp: 36.324, Pop: 33119096, GdpPercap: 1077.281856},
		{Country: "United States", Continent: "Americas", Year: 1952, LifeExp: 68.44, Pop: 157553000, GdpPercap: 13990.48208},
		{Country: "Australia", Continent: "Oceania", Year: 1952, LifeExp: 69.12, Pop: 8691212, GdpPercap: 10039.59564},

		{Country: "Afghanistan", Continent: "Asia", Year: 1957, LifeExp: 30.332, Pop: 9240934, GdpPercap: 820.8530296},
		{Country: "China", Continent: "Asia", Year: 1957, LifeExp: 50.54896, Pop: 637408000, GdpPercap: 575.9870009},
		{Country: "Germany", Continent: "Europe", Year: 1957, LifeExp: 69.1, Pop: 71019069, GdpPercap: 10187.82665},
		{Country: "Nigeria", Continent: "Africa", Year: 1957, LifeExp: 37.802, Pop: 37173340, GdpPercap: 1100.592563},
		{Country: "United States", Continent: "Americas", Year: 1957, LifeExp: 69.49, Pop: 171984000, GdpPercap: 14847.12712},
		{Country: "Australia", Continent: "Oceania", Year: 1957, LifeExp: 70.33, Pop: 9712569, GdpPercap: 10949.64959},

		{Country: "Afghanistan", Continent: "Asia", Year: 2007, LifeExp: 43.828, Pop: 31889923, GdpPercap: 974.5803384},
		{Country: "China", Continent: "Asia", Year: 2007, LifeExp: 72.961, Pop: 1318683096, GdpPercap: 4959.114854},
		{Country: "Germany", Continent: "Europe", Year: 2007, LifeExp: 79.406, Pop: 82400996, GdpPercap: 32170.37442},
		{Country: "Nigeria", Continent: "Africa", Year: 2007, LifeExp: 46.859, Pop: 135031164, GdpPercap: 2013.977305},
		{Country: "United States", Continent: "Americas", Year: 2007, LifeExp: 78.242, Pop: 301139947, GdpPercap: 42951.65309},
		{Country: "Australia", Continent: "Oceania", Year: 2007, LifeExp: 81.235, Pop: 20434176, GdpPercap: 34435.36744},
	})
}
