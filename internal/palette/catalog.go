package palette

import "github.com/ironsheep/bead-pattern-mcp/internal/colorspace"

// catalog is the built-in bead color list in display order.
var catalog = []Entry{
	{ID: "P01", Name: "White", Category: CategoryNeutral, RGB: colorspace.RGB{R: 238, G: 238, B: 238}},
	{ID: "P17", Name: "Light Gray", Category: CategoryNeutral, RGB: colorspace.RGB{R: 188, G: 188, B: 187}},
	{ID: "P18", Name: "Dark Gray", Category: CategoryNeutral, RGB: colorspace.RGB{R: 138, G: 141, B: 145}},
	{ID: "P02", Name: "Black", Category: CategoryNeutral, RGB: colorspace.RGB{R: 70, G: 68, B: 68}},
	{ID: "P84", Name: "Snow White", Category: CategoryNeutral, RGB: colorspace.RGB{R: 253, G: 254, B: 254}},
	{ID: "P85", Name: "Cream White", Category: CategoryNeutral, RGB: colorspace.RGB{R: 255, G: 246, B: 226}},

	{ID: "P06", Name: "Red", Category: CategoryRed, RGB: colorspace.RGB{R: 179, G: 25, B: 46}},
	{ID: "P20", Name: "Light Red", Category: CategoryRed, RGB: colorspace.RGB{R: 229, G: 77, B: 65}},
	{ID: "P22", Name: "Dark Red", Category: CategoryRed, RGB: colorspace.RGB{R: 122, G: 26, B: 42}},
	{ID: "P53", Name: "Wine Red", Category: CategoryRed, RGB: colorspace.RGB{R: 137, G: 27, B: 54}},
	{ID: "P59", Name: "Vermilion", Category: CategoryRed, RGB: colorspace.RGB{R: 224, G: 66, B: 66}},
	{ID: "P87", Name: "Coffee Red", Category: CategoryRed, RGB: colorspace.RGB{R: 150, G: 54, B: 54}},
	{ID: "P88", Name: "Rust Red", Category: CategoryRed, RGB: colorspace.RGB{R: 172, G: 68, B: 68}},

	{ID: "P08", Name: "Pink", Category: CategoryPink, RGB: colorspace.RGB{R: 238, G: 158, B: 176}},
	{ID: "P54", Name: "Pale Pink", Category: CategoryPink, RGB: colorspace.RGB{R: 247, G: 207, B: 214}},
	{ID: "P58", Name: "Bright Pink", Category: CategoryPink, RGB: colorspace.RGB{R: 245, G: 108, B: 155}},
	{ID: "P57", Name: "Rose Pink", Category: CategoryPink, RGB: colorspace.RGB{R: 224, G: 126, B: 175}},
	{ID: "P86", Name: "Sakura Pink", Category: CategoryPink, RGB: colorspace.RGB{R: 255, G: 193, B: 213}},

	{ID: "P03", Name: "Yellow", Category: CategoryYellow, RGB: colorspace.RGB{R: 252, G: 216, B: 86}},
	{ID: "P46", Name: "Light Yellow", Category: CategoryYellow, RGB: colorspace.RGB{R: 254, G: 238, B: 170}},
	{ID: "P83", Name: "Custard Yellow", Category: CategoryYellow, RGB: colorspace.RGB{R: 254, G: 232, B: 119}},
	{ID: "P15", Name: "Golden Yellow", Category: CategoryYellow, RGB: colorspace.RGB{R: 255, G: 217, B: 102}},
	{ID: "P19", Name: "Ochre", Category: CategoryYellow, RGB: colorspace.RGB{R: 229, G: 155, B: 86}},
	{ID: "P74", Name: "Apricot", Category: CategoryYellow, RGB: colorspace.RGB{R: 252, G: 220, B: 128}},

	{ID: "P04", Name: "Orange", Category: CategoryOrange, RGB: colorspace.RGB{R: 240, G: 108, B: 34}},
	{ID: "P47", Name: "Light Orange", Category: CategoryOrange, RGB: colorspace.RGB{R: 255, G: 185, B: 141}},
	{ID: "P25", Name: "Dark Orange", Category: CategoryOrange, RGB: colorspace.RGB{R: 202, G: 81, B: 47}},
	{ID: "P63", Name: "Coral Orange", Category: CategoryOrange, RGB: colorspace.RGB{R: 255, G: 127, B: 80}},

	{ID: "P10", Name: "Green", Category: CategoryGreen, RGB: colorspace.RGB{R: 25, G: 132, B: 72}},
	{ID: "P11", Name: "Light Green", Category: CategoryGreen, RGB: colorspace.RGB{R: 118, G: 199, B: 130}},
	{ID: "P61", Name: "Dark Green", Category: CategoryGreen, RGB: colorspace.RGB{R: 0, G: 102, B: 61}},
	{ID: "P42", Name: "Mint Green", Category: CategoryGreen, RGB: colorspace.RGB{R: 123, G: 218, B: 214}},
	{ID: "P21", Name: "Grass Green", Category: CategoryGreen, RGB: colorspace.RGB{R: 104, G: 159, B: 56}},
	{ID: "P56", Name: "Forest Green", Category: CategoryGreen, RGB: colorspace.RGB{R: 31, G: 99, B: 71}},
	{ID: "P75", Name: "Jade Green", Category: CategoryGreen, RGB: colorspace.RGB{R: 133, G: 193, B: 158}},
	{ID: "P89", Name: "Olive Green", Category: CategoryGreen, RGB: colorspace.RGB{R: 107, G: 142, B: 35}},

	{ID: "P07", Name: "Blue", Category: CategoryBlue, RGB: colorspace.RGB{R: 44, G: 113, B: 171}},
	{ID: "P09", Name: "Light Blue", Category: CategoryBlue, RGB: colorspace.RGB{R: 108, G: 172, B: 207}},
	{ID: "P43", Name: "Sky Blue", Category: CategoryBlue, RGB: colorspace.RGB{R: 134, G: 200, B: 239}},
	{ID: "P51", Name: "Dark Blue", Category: CategoryBlue, RGB: colorspace.RGB{R: 38, G: 59, B: 114}},
	{ID: "P52", Name: "Navy Blue", Category: CategoryBlue, RGB: colorspace.RGB{R: 52, G: 87, B: 136}},
	{ID: "P26", Name: "Royal Blue", Category: CategoryBlue, RGB: colorspace.RGB{R: 51, G: 102, B: 153}},
	{ID: "P60", Name: "Midnight Blue", Category: CategoryBlue, RGB: colorspace.RGB{R: 25, G: 25, B: 112}},
	{ID: "P76", Name: "Powder Blue", Category: CategoryBlue, RGB: colorspace.RGB{R: 135, G: 206, B: 235}},
	{ID: "P90", Name: "Indigo", Category: CategoryBlue, RGB: colorspace.RGB{R: 75, G: 0, B: 130}},

	{ID: "P05", Name: "Purple", Category: CategoryPurple, RGB: colorspace.RGB{R: 109, G: 72, B: 137}},
	{ID: "P44", Name: "Light Purple", Category: CategoryPurple, RGB: colorspace.RGB{R: 182, G: 144, B: 202}},
	{ID: "P45", Name: "Dark Purple", Category: CategoryPurple, RGB: colorspace.RGB{R: 84, G: 50, B: 119}},
	{ID: "P23", Name: "Lavender", Category: CategoryPurple, RGB: colorspace.RGB{R: 199, G: 186, B: 220}},
	{ID: "P55", Name: "Grape Purple", Category: CategoryPurple, RGB: colorspace.RGB{R: 138, G: 43, B: 226}},

	{ID: "P12", Name: "Brown", Category: CategoryBrown, RGB: colorspace.RGB{R: 113, G: 66, B: 47}},
	{ID: "P62", Name: "Light Brown", Category: CategoryBrown, RGB: colorspace.RGB{R: 169, G: 123, B: 103}},
	{ID: "P70", Name: "Dark Brown", Category: CategoryBrown, RGB: colorspace.RGB{R: 81, G: 51, B: 40}},
	{ID: "P13", Name: "Beige", Category: CategoryBrown, RGB: colorspace.RGB{R: 222, G: 184, B: 135}},
	{ID: "P71", Name: "Chocolate", Category: CategoryBrown, RGB: colorspace.RGB{R: 128, G: 64, B: 0}},
	{ID: "P79", Name: "Coffee", Category: CategoryBrown, RGB: colorspace.RGB{R: 111, G: 78, B: 55}},
	{ID: "P91", Name: "Khaki", Category: CategoryBrown, RGB: colorspace.RGB{R: 195, G: 176, B: 145}},

	{ID: "P34", Name: "Glow Yellow Green", Category: CategoryLuminous, RGB: colorspace.RGB{R: 214, G: 229, B: 171}},
	{ID: "P35", Name: "Glow Orange", Category: CategoryLuminous, RGB: colorspace.RGB{R: 255, G: 196, B: 161}},
	{ID: "P36", Name: "Glow Pink", Category: CategoryLuminous, RGB: colorspace.RGB{R: 255, G: 182, B: 193}},
	{ID: "P37", Name: "Glow Blue", Category: CategoryLuminous, RGB: colorspace.RGB{R: 173, G: 216, B: 230}},
	{ID: "P48", Name: "Fluorescent Yellow", Category: CategoryLuminous, RGB: colorspace.RGB{R: 255, G: 233, B: 0}},
	{ID: "P49", Name: "Fluorescent Orange", Category: CategoryLuminous, RGB: colorspace.RGB{R: 255, G: 127, B: 0}},
	{ID: "P50", Name: "Fluorescent Pink", Category: CategoryLuminous, RGB: colorspace.RGB{R: 255, G: 62, B: 150}},
	{ID: "P73", Name: "Fluorescent Green", Category: CategoryLuminous, RGB: colorspace.RGB{R: 0, G: 255, B: 127}},

	{ID: "P27", Name: "Translucent Red", Category: CategoryTranslucent, RGB: colorspace.RGB{R: 255, G: 0, B: 0}},
	{ID: "P28", Name: "Translucent Blue", Category: CategoryTranslucent, RGB: colorspace.RGB{R: 0, G: 0, B: 255}},
	{ID: "P29", Name: "Translucent Yellow", Category: CategoryTranslucent, RGB: colorspace.RGB{R: 255, G: 255, B: 0}},
	{ID: "P30", Name: "Translucent Green", Category: CategoryTranslucent, RGB: colorspace.RGB{R: 0, G: 255, B: 0}},

	{ID: "P31", Name: "Gold", Category: CategoryMetallic, RGB: colorspace.RGB{R: 255, G: 215, B: 0}},
	{ID: "P32", Name: "Silver", Category: CategoryMetallic, RGB: colorspace.RGB{R: 192, G: 192, B: 192}},
	{ID: "P33", Name: "Bronze", Category: CategoryMetallic, RGB: colorspace.RGB{R: 205, G: 127, B: 50}},

	{ID: "P38", Name: "Pearl White", Category: CategoryPearlescent, RGB: colorspace.RGB{R: 255, G: 250, B: 250}},
	{ID: "P39", Name: "Pearl Pink", Category: CategoryPearlescent, RGB: colorspace.RGB{R: 255, G: 182, B: 193}},
	{ID: "P40", Name: "Pearl Blue", Category: CategoryPearlescent, RGB: colorspace.RGB{R: 176, G: 224, B: 230}},
	{ID: "P41", Name: "Pearl Purple", Category: CategoryPearlescent, RGB: colorspace.RGB{R: 221, G: 160, B: 221}},
}
