package mods

// DefaultEntries is the bundled stat dictionary: canonical templated
// text per stat hash, as published by the trade site's stats endpoint.
// Each affix is stored in a single polarity; Parse handles the
// increased/reduced flip.
var DefaultEntries = []StatEntry{
	{ID: "explicit.stat_1509134228", Text: "#% increased Physical Damage"},
	{ID: "explicit.stat_3299347043", Text: "# to maximum Life"},
	{ID: "explicit.stat_1050105434", Text: "# to maximum Mana"},
	{ID: "explicit.stat_2482852589", Text: "# to maximum Energy Shield"},
	{ID: "explicit.stat_3372524247", Text: "#% to Fire Resistance"},
	{ID: "explicit.stat_4220027924", Text: "#% to Cold Resistance"},
	{ID: "explicit.stat_1671376347", Text: "#% to Lightning Resistance"},
	{ID: "explicit.stat_2923486259", Text: "#% to Chaos Resistance"},
	{ID: "explicit.stat_210067635", Text: "#% increased Attack Speed"},
	{ID: "explicit.stat_2891184298", Text: "#% increased Cast Speed"},
	{ID: "explicit.stat_2628039082", Text: "#% increased Critical Hit Chance"},
	{ID: "explicit.stat_2694482655", Text: "#% increased Critical Damage Bonus"},
	{ID: "explicit.stat_3917489142", Text: "#% increased Rarity of Items found"},
	{ID: "explicit.stat_4080418644", Text: "# to Strength"},
	{ID: "explicit.stat_3261801346", Text: "# to Dexterity"},
	{ID: "explicit.stat_328541901", Text: "# to Intelligence"},
	{ID: "explicit.stat_691932474", Text: "# to Accuracy Rating"},
	{ID: "explicit.stat_2144192055", Text: "#% increased Movement Speed"},
	{ID: "explicit.stat_1062208444", Text: "#% increased Armour"},
	{ID: "explicit.stat_2106365538", Text: "#% increased Evasion Rating"},
	{ID: "explicit.stat_1999113824", Text: "#% increased Armour and Evasion"},
	{ID: "explicit.stat_3321629045", Text: "#% increased Armour and Energy Shield"},
	{ID: "explicit.stat_3523867985", Text: "Adds # to # Physical Damage"},
	{ID: "explicit.stat_1573130764", Text: "Adds # to # Fire Damage"},
	{ID: "explicit.stat_4067062424", Text: "Adds # to # Cold Damage"},
	{ID: "explicit.stat_1754445556", Text: "Adds # to # Lightning Damage"},
	{ID: "explicit.stat_3531280422", Text: "Adds # to # Chaos Damage"},
	{ID: "explicit.stat_821021828", Text: "Leeches #% of Physical Damage as Life"},
	{ID: "explicit.stat_3237948413", Text: "#% of Damage taken Recouped as Life"},
	{ID: "explicit.stat_836936635", Text: "Regenerate #% of maximum Life per second"},
	{ID: "explicit.stat_4052037485", Text: "# to maximum Spirit"},
	{ID: "explicit.stat_1379411836", Text: "# to Level of all Skills"},
	{ID: "explicit.stat_124859000", Text: "#% increased Elemental Damage with Attacks"},
	{ID: "explicit.stat_3291658075", Text: "#% increased Cold Damage"},
	{ID: "explicit.stat_3962278098", Text: "#% increased Fire Damage"},
	{ID: "explicit.stat_2231156303", Text: "#% increased Lightning Damage"},
	{ID: "explicit.stat_736967255", Text: "#% increased Spell Damage"},
	{ID: "explicit.stat_3691641145", Text: "#% increased Projectile Speed"},
	{ID: "explicit.stat_2748665614", Text: "#% increased Mana Regeneration Rate"},
	{ID: "explicit.stat_789117908", Text: "#% increased Mana Cost of Skills"},
	{ID: "explicit.stat_1261612903", Text: "#% increased Attribute Requirements"},
	{ID: "explicit.stat_3695891184", Text: "Gain # Life per Enemy Killed"},
	{ID: "explicit.stat_1368271171", Text: "Gain # Mana per Enemy Killed"},
	{ID: "explicit.stat_2748763342", Text: "#% increased Stun Threshold"},
	{ID: "explicit.stat_680068163", Text: "#% increased Block chance"},
	{ID: "explicit.stat_3441501978", Text: "#% to all Elemental Resistances"},
	{ID: "explicit.stat_3642528642", Text: "#% increased Light Radius"},
	{ID: "explicit.stat_1589917703", Text: "Minions deal #% increased Damage"},
	{ID: "explicit.stat_770672621", Text: "Minions have #% increased maximum Life"},
	{ID: "explicit.stat_967627487", Text: "#% increased Damage over Time"},
}
