package coerce

// sequenceIDByName maps stable animation sequence names to the numeric IDs
// used in the XML. The table mirrors the conventions of the game's feedback
// definitions. A few IDs have more than one name; the first name listed for
// an ID is the canonical one returned by SequenceNameByID.
var sequenceIDByName = map[string]int64{
	"none": -1,
	"idle01": 1000, "idle02": 1001, "idle03": 1002, "idle04": 1003, "idle05": 1003,
	"death01": 1005,
	"talk01": 1010, "talk02": 1011,
	"greet01": 1020, "bow01": 1021,
	"cheer01": 1030, "cheer02": 1031, "cheer03": 1032,
	"lookat01": 1040, "lookat02": 1041,
	"protest01": 1050, "protest02": 1051, "protest03": 1052, "protest04": 1053,
	"protest05": 1054, "protest06": 1055,
	"laydown01": 1060, "laydown02": 1061, "laydown03": 1062,
	"fishing01": 1070, "fishing02": 1071, "fishing03": 1072,
	"dance01": 1080, "dance02": 1081, "dance03": 1082, "dance04": 1083,
	"fight01": 1090, "fight02": 1091, "fight03": 1092, "fight04": 1093, "fight05": 1094,
	"walk01": 2000, "walk02": 2001, "walk03": 2002, "walk04": 2003, "walk05": 2004,
	"walk06": 2005, "walk07": 2005,
	"drunkenwalk01": 2010, "drunkenwalk02": 2011,
	"run01": 2100, "panicrun01": 2101, "panicrun02": 2102,
	"donate01": 2200, "buy01": 2201, "buy02": 2202,
	"explode01": 2300, "explode02": 2301, "explode03": 2302, "explode04": 2303,
	"hitwood": 2400, "hitbrick": 2401, "hitsteel": 2402, "hitconcrete": 2403,
	"misswater": 2410, "missland": 2411,
	"work01": 3000, "work02": 3001, "work03": 3002, "work04": 3003, "work05": 3004,
	"work06": 3005, "work07": 3006, "work08": 3007, "work09": 3008, "work10": 3009,
	"work_staged01": 3010, "work_staged02": 3011, "work_staged03": 3012,
	"work11": 3020, "work12": 3021, "work13": 3022, "work14": 3023, "work15": 3024,
	"work16": 3025, "work17": 3026, "work18": 3027, "work19": 3028,
	"boosted": 3050,
	"stand01": 4000,
	"build01": 5000,
	"extFire01": 5100, "extFire02": 5101, "extFire03": 5102,
	"pray01": 5200,
	"protestwalk01": 5300, "protestwalk02": 5301, "protestwalk03": 5302,
	"riotspecial01": 5350, "riotspecial02": 5351, "riotspecial03": 5352,
	"takeoff01": 5400, "land01": 5410,
	"sitdown01": 5500, "sitdown02": 5501, "sitdown03": 5502,
	"idleLoaded01": 6000, "walkingLoaded01": 6001,
	"portrait_neutral_idle": 10000, "portrait_neutral_talk": 10001,
	"portrait_friendly_idle": 10010, "portrait_friendly_talk": 10011,
	"portrait_angry_idle": 10020, "portrait_angry_talk": 10021,
	"portrait_neutral_talk_idle": 10030, "portrait_friendly_talk_idle": 10031,
	"portrait_angry_talk_idle": 10040,
}

var sequenceNameByID = func() map[int64]string {
	m := make(map[int64]string, len(sequenceIDByName))
	for name, id := range sequenceIDByName {
		if existing, ok := m[id]; !ok || name < existing {
			m[id] = name
		}
	}
	return m
}()

// SequenceNameByID returns the canonical sequence name for a numeric ID, or
// "none" for an unknown ID.
func SequenceNameByID(id int64) string {
	if name, ok := sequenceNameByID[id]; ok {
		return name
	}
	return "none"
}

// SequenceIDByName returns the numeric ID for a sequence name, or -1 for an
// unknown name.
func SequenceIDByName(name string) int64 {
	if id, ok := sequenceIDByName[name]; ok {
		return id
	}
	return -1
}

// SequenceNames lists all known sequence names. Useful for editors that
// present a choice.
func SequenceNames() []string {
	names := make([]string, 0, len(sequenceIDByName))
	for name := range sequenceIDByName {
		names = append(names, name)
	}
	return names
}
