package levelgen

import (
	"mapforge/pkg/engine/geom"
	"mapforge/pkg/game/level"
)

func assets(ids ...string) []WeightedAsset {
	out := make([]WeightedAsset, len(ids))
	for i, id := range ids {
		out[i] = WeightedAsset{ID: id, Weight: 1}
	}
	return out
}

func amount(p float64, lo, hi int) Amount {
	return Amount{Probability: p, Min: lo, Max: hi}
}

func scaled(p float64, lo, hi, ref int) Amount {
	return Amount{Probability: p, Min: lo, Max: hi, ScaleWithArea: true, ReferenceArea: ref}
}

// wall is a movement-blocking piece pushed against a wall.
func wall(typ string, w, h int, a Amount, ids ...string) FurnitureRule {
	return FurnitureRule{
		Type:            typ,
		Assets:          assets(ids...),
		Amount:          a,
		Size:            geom.Sz(w, h),
		Positioning:     AgainstWall,
		MinDoorDistance: 2,
		BlocksMovement:  true,
		AllowFlip:       true,
		Variants:        2,
		Health:          40,
	}
}

// centre is a movement-blocking piece placed as close to the middle as fits.
func centre(typ string, w, h int, a Amount, ids ...string) FurnitureRule {
	return FurnitureRule{
		Type:            typ,
		Assets:          assets(ids...),
		Amount:          a,
		Size:            geom.Sz(w, h),
		Positioning:     Center,
		MinDoorDistance: 2,
		BlocksMovement:  true,
		AllowRotation:   true,
		Variants:        1,
		Health:          60,
	}
}

// decor is a walkable 1×1 prop anywhere in the room.
func decor(typ string, a Amount, ids ...string) FurnitureRule {
	return FurnitureRule{
		Type:        typ,
		Assets:      assets(ids...),
		Amount:      a,
		Size:        geom.Sz(1, 1),
		Positioning: Anywhere,
		AllowFlip:   true,
		Variants:    3,
		Health:      5,
	}
}

// cover is a 1×1 piece that hides whatever stands behind it.
func cover(typ string, a Amount, ids ...string) FurnitureRule {
	return FurnitureRule{
		Type:            typ,
		Assets:          assets(ids...),
		Amount:          a,
		Size:            geom.Sz(1, 1),
		Positioning:     Anywhere,
		MinDoorDistance: 1,
		BlocksMovement:  true,
		BlocksSight:     true,
		Variants:        2,
		Health:          80,
	}
}

// DefaultFurniture returns the built-in furniture rules.
func DefaultFurniture() FurnitureTable {
	return FurnitureTable{
		level.Lobby: {
			centre("reception_desk", 3, 1, amount(1, 1, 1), "desk_curved", "desk_marble"),
			wall("bench", 2, 1, scaled(0.9, 1, 2, 80), "bench_steel", "bench_wood"),
			decor("potted_plant", amount(0.8, 1, 3), "plant_fern", "plant_ficus"),
		},
		level.Reception: {
			wall("front_desk", 2, 1, amount(1, 1, 1), "desk_front"),
			wall("waiting_chairs", 2, 1, amount(0.7, 1, 2), "chairs_row"),
			decor("magazine_rack", amount(0.5, 1, 1), "rack_magazines"),
		},
		level.Office: {
			wall("desk", 2, 1, scaled(0.9, 1, 3, 30), "desk_steel", "desk_wood"),
			wall("filing_cabinet", 1, 1, amount(0.7, 1, 2), "cabinet_grey", "cabinet_tall"),
			decor("chair", amount(0.8, 1, 2), "chair_swivel"),
			decor("paper_stack", amount(0.5, 1, 3), "papers_loose", "papers_bound"),
		},
		level.ExecutiveOffice: {
			centre("executive_desk", 3, 2, amount(1, 1, 1), "desk_mahogany"),
			wall("bookshelf", 2, 1, amount(0.8, 1, 2), "shelf_books"),
			decor("globe", amount(0.4, 1, 1), "globe_brass"),
		},
		level.ConferenceRoom: {
			centre("conference_table", 4, 2, scaled(1, 1, 1, 60), "table_long", "table_oval"),
			wall("whiteboard", 2, 1, amount(0.8, 1, 1), "whiteboard"),
			decor("chair", amount(1, 2, 6), "chair_meeting"),
		},
		level.BreakRoom: {
			wall("counter", 3, 1, amount(1, 1, 1), "counter_laminate"),
			centre("dining_table", 2, 2, amount(0.8, 1, 1), "table_round"),
			wall("vending_machine", 1, 1, amount(0.7, 1, 2), "vending_snacks", "vending_drinks"),
			decor("coffee_machine", amount(0.6, 1, 1), "coffee_drip"),
		},
		level.Kitchen: {
			wall("stove", 2, 1, amount(1, 1, 2), "stove_industrial"),
			wall("fridge", 1, 1, amount(0.9, 1, 2), "fridge_walkin", "fridge_upright"),
			centre("prep_table", 2, 1, amount(0.7, 1, 1), "table_steel"),
		},
		level.Restroom: {
			wall("stall", 1, 1, scaled(1, 1, 3, 16), "stall_door"),
			wall("sink", 1, 1, amount(0.9, 1, 2), "sink_basin"),
		},
		level.StorageRoom: {
			wall("shelf", 2, 1, scaled(1, 1, 3, 24), "shelf_metal", "shelf_wire"),
			cover("crate_stack", amount(0.8, 1, 3), "crates_wood", "crates_plastic"),
			decor("box", amount(0.7, 1, 4), "box_cardboard"),
		},
		level.ServerRoom: {
			wall("server_rack", 1, 2, scaled(1, 2, 4, 40), "rack_blinking", "rack_dark"),
			cover("cooling_unit", amount(0.6, 1, 1), "cooling_fan"),
			decor("cable_bundle", amount(0.7, 1, 3), "cables_floor"),
		},
		level.Laboratory: {
			wall("lab_bench", 3, 1, scaled(1, 1, 2, 60), "bench_chem", "bench_bio"),
			centre("specimen_tank", 1, 1, amount(0.6, 1, 2), "tank_murky", "tank_empty"),
			decor("sample_tray", amount(0.6, 1, 3), "tray_slides"),
		},
		level.SecurityRoom: {
			wall("monitor_wall", 3, 1, amount(1, 1, 1), "monitors_cctv"),
			wall("weapons_locker", 1, 1, amount(0.6, 1, 1), "locker_forced"),
			cover("barricade", amount(0.5, 1, 2), "barricade_steel"),
		},
		level.MedicalBay: {
			wall("medical_bed", 2, 1, scaled(1, 1, 3, 40), "bed_gurney", "bed_exam"),
			wall("medicine_cabinet", 1, 1, amount(0.9, 1, 1), "cabinet_meds"),
			decor("scanner", amount(0.5, 1, 1), "scanner_handheld"),
		},
		level.Armory: {
			wall("weapon_rack", 2, 1, scaled(1, 1, 2, 36), "rack_rifles", "rack_empty"),
			cover("ammo_crate", amount(0.8, 1, 2), "crate_ammo"),
			decor("armor_stand", amount(0.4, 1, 1), "stand_armor"),
		},
		level.Library: {
			wall("bookshelf", 2, 1, scaled(1, 2, 4, 50), "shelf_books", "shelf_archive"),
			centre("reading_table", 2, 1, amount(0.8, 1, 1), "table_reading"),
			decor("book_pile", amount(0.6, 1, 3), "books_stacked"),
		},
		level.Workshop: {
			wall("workbench", 2, 1, scaled(1, 1, 2, 40), "bench_tools", "bench_welding"),
			wall("tool_rack", 1, 1, amount(0.8, 1, 2), "rack_tools"),
			decor("parts_bin", amount(0.6, 1, 2), "bin_parts"),
		},
		level.MaintenanceRoom: {
			wall("pipe_junction", 1, 2, amount(1, 1, 2), "pipes_coolant", "pipes_water"),
			cover("generator", amount(0.6, 1, 1), "generator_diesel"),
			decor("toolbox", amount(0.5, 1, 1), "toolbox_red"),
		},
		level.BossRoom: {
			centre("dais", 3, 3, amount(1, 1, 1), "dais_stone", "dais_reactor"),
			cover("pillar", scaled(1, 2, 4, 160), "pillar_cracked", "pillar_steel"),
			decor("debris", amount(0.8, 2, 5), "debris_concrete", "debris_metal"),
		},
	}
}

var (
	cornerFirst   = []SpawnCategory{SpawnCorner, SpawnCover, SpawnRandom}
	ambush        = []SpawnCategory{SpawnNearDoorway, SpawnCover, SpawnPerimeter}
	patrol        = []SpawnCategory{SpawnPerimeter, SpawnCenter, SpawnRandom}
	guardedCentre = []SpawnCategory{SpawnCenter, SpawnCover, SpawnCorner}
)

func profile(density, modifier float64, lo, hi int, cats []SpawnCategory, enemies ...string) SpawnProfile {
	return SpawnProfile{
		BaseDensity:   density,
		ReferenceArea: 64,
		Modifier:      modifier,
		Variance:      0.25,
		Min:           lo,
		Max:           hi,
		Categories:    cats,
		Enemies:       assets(enemies...),
		Marker:        "spawn_marker",
		MinDelay:      0,
		MaxDelay:      5,
	}
}

// DefaultSpawns returns the built-in spawn profiles.
func DefaultSpawns() SpawnTable {
	return SpawnTable{
		level.Lobby:           profile(1, 0.5, 0, 2, patrol, "drone", "crawler"),
		level.Reception:       profile(1, 0.6, 0, 2, ambush, "drone", "crawler"),
		level.Office:          profile(1.5, 1, 0, 3, cornerFirst, "crawler", "drone", "stalker"),
		level.ExecutiveOffice: profile(1.5, 1.1, 1, 3, cornerFirst, "stalker", "crawler"),
		level.ConferenceRoom:  profile(1.5, 1, 0, 4, patrol, "crawler", "drone"),
		level.BreakRoom:       profile(1, 0.8, 0, 3, ambush, "crawler"),
		level.Kitchen:         profile(1, 0.9, 0, 2, cornerFirst, "crawler", "stalker"),
		level.Restroom:        profile(1, 0.5, 0, 1, cornerFirst, "crawler"),
		level.StorageRoom:     profile(1.5, 1, 0, 3, []SpawnCategory{SpawnCover, SpawnCorner}, "stalker", "crawler"),
		level.ServerRoom:      profile(2, 1.2, 1, 4, ambush, "sentry", "drone"),
		level.Laboratory:      profile(2, 1.2, 1, 4, []SpawnCategory{SpawnCover, SpawnCenter}, "stalker", "brute"),
		level.SecurityRoom:    profile(2, 1.3, 1, 4, ambush, "sentry", "brute"),
		level.MedicalBay:      profile(1, 0.7, 0, 2, cornerFirst, "crawler"),
		level.Armory:          profile(2, 1.4, 1, 5, []SpawnCategory{SpawnCover, SpawnNearDoorway}, "sentry", "brute"),
		level.Library:         profile(1.5, 1, 0, 3, []SpawnCategory{SpawnCover, SpawnPerimeter}, "stalker"),
		level.Workshop:        profile(1.5, 1, 0, 3, cornerFirst, "crawler", "brute"),
		level.MaintenanceRoom: profile(1.5, 1.1, 0, 3, []SpawnCategory{SpawnCover, SpawnCorner}, "crawler", "stalker"),
		level.BossRoom:        profile(2, 1.5, 3, 8, guardedCentre, "warden", "brute", "sentry"),
	}
}

func resource(t level.ResourceType, a Amount, pref ResourcePreference, value float64, qlo, qhi int, ids ...string) ResourceRule {
	return ResourceRule{
		Type:        t,
		Assets:      assets(ids...),
		Amount:      a,
		Preference:  pref,
		BaseValue:   value,
		QuantityMin: qlo,
		QuantityMax: qhi,
		Consumable:  t != level.Key && t != level.Weapon,
	}
}

// DefaultResources returns the built-in resource rules. The BreakRoom food
// rule comes first so it is drawn before anything else in that room.
func DefaultResources() ResourceTable {
	medkit := resource(level.Health, amount(0.6, 1, 1), PreferCorner, 25, 1, 1, "medkit_small", "medkit_large")
	stim := resource(level.Health, amount(0.3, 1, 1), PreferRandom, 50, 1, 1, "stim_pack")
	stim.Effect = &level.TimedEffect{Name: "regeneration", Duration: 10, Magnitude: 2}
	ammo := resource(level.Ammo, amount(0.5, 1, 2), PreferCorner, 10, 10, 30, "ammo_box", "ammo_clip")
	cash := resource(level.Currency, amount(0.4, 1, 2), PreferRandom, 5, 5, 20, "credit_chip")

	return ResourceTable{
		level.Lobby:     {resource(level.Health, amount(0.5, 1, 1), PreferCorner, 25, 1, 1, "medkit_small")},
		level.Reception: {cash},
		level.Office:    {cash, ammo},
		level.ExecutiveOffice: {
			resource(level.Currency, amount(0.9, 1, 2), PreferCorner, 10, 20, 50, "credit_chip", "cash_bundle"),
			resource(level.Key, amount(0.3, 1, 1), PreferCenter, 1, 1, 1, "keycard_exec"),
		},
		level.ConferenceRoom: {cash},
		level.BreakRoom: {
			resource(level.Food, amount(0.8, 1, 2), PreferCenter, 15, 1, 3, "ration_bar", "canned_food"),
			resource(level.Health, amount(0.3, 1, 1), PreferCorner, 15, 1, 1, "medkit_small"),
		},
		level.Kitchen: {
			resource(level.Food, amount(0.9, 1, 3), PreferCorner, 20, 1, 3, "ration_bar", "canned_food", "fresh_fruit"),
		},
		level.Restroom:    {resource(level.Health, amount(0.4, 1, 1), PreferCorner, 15, 1, 1, "first_aid")},
		level.StorageRoom: {ammo, resource(level.Food, amount(0.4, 1, 1), PreferCorner, 10, 1, 2, "canned_food")},
		level.ServerRoom:  {resource(level.Key, amount(0.5, 1, 1), PreferCenter, 1, 1, 1, "keycard_server")},
		level.Laboratory:  {stim},
		level.SecurityRoom: {
			ammo,
			resource(level.Armor, amount(0.5, 1, 1), PreferCorner, 30, 1, 1, "vest_kevlar"),
			resource(level.Key, amount(0.4, 1, 1), PreferCenter, 1, 1, 1, "keycard_security"),
		},
		level.MedicalBay: {medkit, stim},
		level.Armory: {
			resource(level.Weapon, amount(0.8, 1, 2), PreferCorner, 40, 1, 1, "rifle", "shotgun", "pistol"),
			resource(level.Ammo, amount(1, 1, 3), PreferCorner, 10, 20, 40, "ammo_box"),
			resource(level.Armor, amount(0.6, 1, 1), PreferCorner, 40, 1, 1, "vest_tactical"),
		},
		level.Library:         {cash},
		level.Workshop:        {resource(level.Armor, amount(0.3, 1, 1), PreferCorner, 20, 1, 1, "plating_scrap"), ammo},
		level.MaintenanceRoom: {resource(level.Key, amount(0.3, 1, 1), PreferRandom, 1, 1, 1, "keycard_maintenance")},
		level.BossRoom: {
			resource(level.Currency, amount(1, 1, 1), PreferCenter, 100, 100, 200, "vault_case"),
			resource(level.Health, amount(1, 1, 2), PreferCorner, 50, 1, 1, "medkit_large"),
		},
	}
}
