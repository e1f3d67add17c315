package schema

// GarminDB file names. Activities live in their own database file,
// everything else is in garmin.db.
const (
	GarminDB           = "garmin.db"
	GarminActivitiesDB = "garmin_activities.db"
)

// Tables is the allow-list in sync order. The destination schema for
// each is immutable across runs; only rows change.
func Tables() []Table {
	return []Table{
		dailySummary,
		activities,
		sleep,
		stress,
		weight,
		restingHR,
	}
}

// Lookup returns the descriptor for name, if allow-listed.
func Lookup(name string) (Table, bool) {
	for _, t := range Tables() {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

var dailySummary = Table{
	Name:         "daily_summary",
	DBFile:       GarminDB,
	PrimaryKey:   []string{"day"},
	WindowColumn: "day",
	Columns: []Column{
		{"day", TypeDate},
		{"hr_min", TypeInteger},
		{"hr_max", TypeInteger},
		{"rhr", TypeInteger},
		{"stress_avg", TypeInteger},
		{"step_goal", TypeInteger},
		{"steps", TypeInteger},
		{"moderate_activity_time", TypeTime},
		{"vigorous_activity_time", TypeTime},
		{"intensity_time_goal", TypeTime},
		{"floors", TypeFloat},
		{"floors_goal", TypeFloat},
		{"distance", TypeFloat},
		{"calories_goal", TypeInteger},
		{"calories_total", TypeInteger},
		{"calories_bmr", TypeInteger},
		{"calories_active", TypeInteger},
		{"calories_consumed", TypeInteger},
		{"hydration_goal", TypeFloat},
		{"hydration_intake", TypeFloat},
		{"sweat_loss", TypeFloat},
		{"spo2_avg", TypeFloat},
		{"spo2_min", TypeFloat},
		{"rr_waking_avg", TypeFloat},
		{"rr_max", TypeFloat},
		{"rr_min", TypeFloat},
		{"bb_charged", TypeInteger},
		{"bb_max", TypeInteger},
		{"bb_min", TypeInteger},
		{"description", TypeString},
	},
}

var activities = Table{
	Name:         "activities",
	DBFile:       GarminActivitiesDB,
	PrimaryKey:   []string{"activity_id"},
	WindowColumn: "start_time",
	Columns: []Column{
		{"activity_id", TypeString},
		{"name", TypeString},
		{"description", TypeString},
		{"type", TypeString},
		{"sport", TypeString},
		{"sub_sport", TypeString},
		{"laps", TypeInteger},
		{"start_time", TypeDateTime},
		{"stop_time", TypeDateTime},
		{"elapsed_time", TypeTime},
		{"moving_time", TypeTime},
		{"distance", TypeFloat},
		{"cycles", TypeFloat},
		{"avg_hr", TypeInteger},
		{"max_hr", TypeInteger},
		{"avg_rr", TypeFloat},
		{"max_rr", TypeFloat},
		{"calories", TypeInteger},
		{"avg_cadence", TypeInteger},
		{"max_cadence", TypeInteger},
		{"avg_speed", TypeFloat},
		{"max_speed", TypeFloat},
		{"ascent", TypeFloat},
		{"descent", TypeFloat},
		{"max_temperature", TypeFloat},
		{"min_temperature", TypeFloat},
		{"avg_temperature", TypeFloat},
		{"training_effect", TypeFloat},
		{"anaerobic_training_effect", TypeFloat},
	},
}

var sleep = Table{
	Name:         "sleep",
	DBFile:       GarminDB,
	PrimaryKey:   []string{"day"},
	WindowColumn: "day",
	Columns: []Column{
		{"day", TypeDate},
		{"start", TypeDateTime},
		{"end", TypeDateTime},
		{"total_sleep", TypeTime},
		{"deep_sleep", TypeTime},
		{"light_sleep", TypeTime},
		{"rem_sleep", TypeTime},
		{"awake", TypeTime},
		{"avg_spo2", TypeFloat},
		{"avg_rr", TypeFloat},
		{"avg_stress", TypeFloat},
		{"score", TypeInteger},
		{"qualifier", TypeString},
	},
}

var stress = Table{
	Name:         "stress",
	DBFile:       GarminDB,
	PrimaryKey:   []string{"timestamp"},
	WindowColumn: "timestamp",
	Columns: []Column{
		{"timestamp", TypeDateTime},
		{"stress", TypeInteger},
	},
}

var weight = Table{
	Name:         "weight",
	DBFile:       GarminDB,
	PrimaryKey:   []string{"day"},
	WindowColumn: "day",
	Columns: []Column{
		{"day", TypeDate},
		{"weight", TypeFloat},
	},
}

var restingHR = Table{
	Name:         "resting_hr",
	DBFile:       GarminDB,
	PrimaryKey:   []string{"day"},
	WindowColumn: "day",
	Columns: []Column{
		{"day", TypeDate},
		{"resting_heart_rate", TypeFloat},
	},
}
