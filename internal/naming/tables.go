package naming

// prefixes and suffixes are the riven name fragments keyed by attribute url_name
var prefixes = map[string]string{
	"ammo_maximum":                     "Ampi",
	"damage_vs_corpus":                 "Manti",
	"damage_vs_grineer":                "Argi",
	"damage_vs_infested":               "Pura",
	"critical_chance":                  "Crita",
	"critical_damage":                  "Acri",
	"base_damage_/_melee_damage":       "Visi",
	"base_damage":                      "Visi",
	"melee_damage":                     "Visi",
	"damage":                           "Visi",
	"critical_chance_on_slide_attack":  "Pleci",
	"combo_duration":                   "Tempi",
	"electric_damage":                  "Vexi",
	"cold_damage":                      "Geli",
	"heat_damage":                      "Igni",
	"finisher_damage":                  "Exi",
	"fire_rate_/_attack_speed":         "Croni",
	"projectile_speed":                 "Conci",
	"channeling_damage":                "Para",
	"channeling_efficiency":            "Forti",
	"impact_damage":                    "Magna",
	"magazine_capacity":                "Arma",
	"multishot":                        "Sati",
	"toxin_damage":                     "Toxi",
	"punch_through":                    "Lexi",
	"puncture_damage":                  "Insi",
	"reload_speed":                     "Feva",
	"range":                            "Locti",
	"slash_damage":                     "Sci",
	"status_chance":                    "Hexa",
	"status_duration":                  "Deci",
	"recoil":                           "Zeti",
	"zoom":                             "Hera",
	"chance_to_gain_extra_combo_count": "Laci",
	"chance_to_gain_combo_count":       "Nus",
}

var suffixes = map[string]string{
	"ammo_maximum":                     "Bin",
	"damage_vs_corpus":                 "Tron",
	"damage_vs_grineer":                "Con",
	"damage_vs_infested":               "Ada",
	"cold_damage":                      "Do",
	"channeling_damage":                "Um",
	"channeling_efficiency":            "Us",
	"combo_duration":                   "Nem",
	"critical_chance":                  "Cron",
	"critical_chance_on_slide_attack":  "Nent",
	"critical_damage":                  "Tis",
	"base_damage_/_melee_damage":       "Ata",
	"base_damage":                      "Ata",
	"melee_damage":                     "Ata",
	"damage":                           "Ata",
	"electric_damage":                  "Tio",
	"heat_damage":                      "Pha",
	"finisher_damage":                  "Cta",
	"fire_rate_/_attack_speed":         "Dra",
	"projectile_speed":                 "Nak",
	"impact_damage":                    "Ton",
	"magazine_capacity":                "Tin",
	"multishot":                        "Can",
	"toxin_damage":                     "Tox",
	"punch_through":                    "Nok",
	"puncture_damage":                  "Cak",
	"reload_speed":                     "Tak",
	"range":                            "Tor",
	"slash_damage":                     "Sus",
	"status_chance":                    "Dex",
	"status_duration":                  "Des",
	"recoil":                           "Mag",
	"zoom":                             "Lis",
	"chance_to_gain_extra_combo_count": "Nus",
}

// baseValues are the stat magnitudes of a two-positive, no-negative riven at
// neutral disposition, per weapon class. Dividing by them puts stats with
// very different scales on one axis.
var baseValues = map[string]map[string]float64{
	"rifle": {
		"ammo_maximum": 49.95, "damage_vs_corpus": 45, "damage_vs_grineer": 45,
		"damage_vs_infested": 45, "critical_chance": 149.99, "critical_damage": 120,
		"damage": 165, "electric_damage": 90, "cold_damage": 90, "heat_damage": 90,
		"toxin_damage": 90, "fire_rate_/_attack_speed": 60.03, "impact_damage": 119.97,
		"puncture_damage": 119.97, "slash_damage": 119.97, "magazine_capacity": 50,
		"multishot": 90, "projectile_speed": 90, "punch_through": 2.7, "recoil": 90,
		"reload_speed": 50, "status_chance": 90, "status_duration": 99.99, "zoom": 59.99,
	},
	"shotgun": {
		"ammo_maximum": 90, "damage_vs_corpus": 45, "damage_vs_grineer": 45,
		"damage_vs_infested": 45, "critical_chance": 90, "critical_damage": 90,
		"damage": 164.7, "electric_damage": 90, "cold_damage": 90, "heat_damage": 90,
		"toxin_damage": 90, "fire_rate_/_attack_speed": 89.1, "impact_damage": 119.97,
		"puncture_damage": 119.97, "slash_damage": 119.97, "magazine_capacity": 50,
		"multishot": 119.7, "projectile_speed": 90, "punch_through": 2.7, "recoil": 90,
		"reload_speed": 49.45, "status_chance": 90, "status_duration": 99,
	},
	"pistol": {
		"ammo_maximum": 90, "damage_vs_corpus": 45, "damage_vs_grineer": 45,
		"damage_vs_infested": 45, "critical_chance": 149.99, "critical_damage": 90,
		"damage": 219.6, "electric_damage": 90, "cold_damage": 90, "heat_damage": 90,
		"toxin_damage": 90, "fire_rate_/_attack_speed": 74.7, "impact_damage": 119.97,
		"puncture_damage": 119.97, "slash_damage": 119.97, "magazine_capacity": 50,
		"multishot": 119.7, "projectile_speed": 90, "punch_through": 2.7, "recoil": 90,
		"reload_speed": 50, "status_chance": 90, "status_duration": 99, "zoom": 80.1,
	},
	"archgun": {
		"ammo_maximum": 99.9, "damage_vs_corpus": 45, "damage_vs_grineer": 45,
		"damage_vs_infested": 45, "critical_chance": 99.9, "critical_damage": 80.1,
		"damage": 99.9, "electric_damage": 119.7, "cold_damage": 119.7, "heat_damage": 119.7,
		"toxin_damage": 119.7, "fire_rate_/_attack_speed": 60.03, "impact_damage": 90,
		"puncture_damage": 90, "slash_damage": 90, "magazine_capacity": 60.3,
		"multishot": 60.3, "recoil": 90, "reload_speed": 99.9, "status_chance": 60.3,
		"status_duration": 99.99, "zoom": 59.99,
	},
	"melee": {
		"damage_vs_corpus": 45, "damage_vs_grineer": 45, "damage_vs_infested": 45,
		"critical_chance": 180, "critical_damage": 90, "base_damage_/_melee_damage": 164.7,
		"melee_damage": 164.7, "electric_damage": 90, "cold_damage": 90, "heat_damage": 90,
		"toxin_damage": 90, "fire_rate_/_attack_speed": 54.9, "impact_damage": 119.97,
		"puncture_damage": 119.97, "slash_damage": 119.97, "range": 1.94,
		"status_chance": 90, "status_duration": 99, "combo_duration": 8.1,
		"critical_chance_on_slide_attack": 120, "finisher_damage": 119.7,
		"chance_to_gain_extra_combo_count": 104.85, "chance_to_gain_combo_count": 104.85,
	},
}

func init() {
	// kitguns roll as their primary/secondary class; zaws as melee
	baseValues["kitgun"] = baseValues["pistol"]
	baseValues["zaw"] = baseValues["melee"]
}
