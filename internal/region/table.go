package region

// Metropolitan and overseas regions (2016 boundaries).
const (
	AuvergneRhoneAlpes    = "Auvergne-Rhône-Alpes"
	BourgogneFrancheComte = "Bourgogne-Franche-Comté"
	Bretagne              = "Bretagne"
	CentreValDeLoire      = "Centre-Val de Loire"
	Corse                 = "Corse"
	GrandEst              = "Grand Est"
	HautsDeFrance         = "Hauts-de-France"
	IleDeFrance           = "Île-de-France"
	Normandie             = "Normandie"
	NouvelleAquitaine     = "Nouvelle-Aquitaine"
	Occitanie             = "Occitanie"
	PaysDeLaLoire         = "Pays de la Loire"
	PACA                  = "Provence-Alpes-Côte d'Azur"
	Guadeloupe            = "Guadeloupe"
	Martinique            = "Martinique"
	Guyane                = "Guyane"
	Reunion               = "La Réunion"
	Mayotte               = "Mayotte"
)

// DefaultTable maps department prefixes of a postal code to a region.
// Three-character prefixes cover overseas departments and collectivities.
var DefaultTable = Table{
	"01": AuvergneRhoneAlpes,
	"02": HautsDeFrance,
	"03": AuvergneRhoneAlpes,
	"04": PACA,
	"05": PACA,
	"06": PACA,
	"07": AuvergneRhoneAlpes,
	"08": GrandEst,
	"09": Occitanie,
	"10": GrandEst,
	"11": Occitanie,
	"12": Occitanie,
	"13": PACA,
	"14": Normandie,
	"15": AuvergneRhoneAlpes,
	"16": NouvelleAquitaine,
	"17": NouvelleAquitaine,
	"18": CentreValDeLoire,
	"19": NouvelleAquitaine,
	"20": Corse,
	"21": BourgogneFrancheComte,
	"22": Bretagne,
	"23": NouvelleAquitaine,
	"24": NouvelleAquitaine,
	"25": BourgogneFrancheComte,
	"26": AuvergneRhoneAlpes,
	"27": Normandie,
	"28": CentreValDeLoire,
	"29": Bretagne,
	"30": Occitanie,
	"31": Occitanie,
	"32": Occitanie,
	"33": NouvelleAquitaine,
	"34": Occitanie,
	"35": Bretagne,
	"36": CentreValDeLoire,
	"37": CentreValDeLoire,
	"38": AuvergneRhoneAlpes,
	"39": BourgogneFrancheComte,
	"40": NouvelleAquitaine,
	"41": CentreValDeLoire,
	"42": AuvergneRhoneAlpes,
	"43": AuvergneRhoneAlpes,
	"44": PaysDeLaLoire,
	"45": CentreValDeLoire,
	"46": Occitanie,
	"47": NouvelleAquitaine,
	"48": Occitanie,
	"49": PaysDeLaLoire,
	"50": Normandie,
	"51": GrandEst,
	"52": GrandEst,
	"53": PaysDeLaLoire,
	"54": GrandEst,
	"55": GrandEst,
	"56": Bretagne,
	"57": GrandEst,
	"58": BourgogneFrancheComte,
	"59": HautsDeFrance,
	"60": HautsDeFrance,
	"61": Normandie,
	"62": HautsDeFrance,
	"63": AuvergneRhoneAlpes,
	"64": NouvelleAquitaine,
	"65": Occitanie,
	"66": Occitanie,
	"67": GrandEst,
	"68": GrandEst,
	"69": AuvergneRhoneAlpes,
	"70": BourgogneFrancheComte,
	"71": BourgogneFrancheComte,
	"72": PaysDeLaLoire,
	"73": AuvergneRhoneAlpes,
	"74": AuvergneRhoneAlpes,
	"75": IleDeFrance,
	"76": Normandie,
	"77": IleDeFrance,
	"78": IleDeFrance,
	"79": NouvelleAquitaine,
	"80": HautsDeFrance,
	"81": Occitanie,
	"82": Occitanie,
	"83": PACA,
	"84": PACA,
	"85": PaysDeLaLoire,
	"86": NouvelleAquitaine,
	"87": NouvelleAquitaine,
	"88": GrandEst,
	"89": BourgogneFrancheComte,
	"90": BourgogneFrancheComte,
	"91": IleDeFrance,
	"92": IleDeFrance,
	"93": IleDeFrance,
	"94": IleDeFrance,
	"95": IleDeFrance,

	"971": Guadeloupe,
	"972": Martinique,
	"973": Guyane,
	"974": Reunion,
	"976": Mayotte,
	"975": "Saint-Pierre-et-Miquelon",
	"986": "Wallis-et-Futuna",
	"987": "Polynésie française",
	"988": "Nouvelle-Calédonie",
}
