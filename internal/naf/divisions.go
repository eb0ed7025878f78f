package naf

// DefaultTable covers the NAF rev. 2 divisions (INSEE).
var DefaultTable = Table{
	"01": {Agriculture, "Culture et production animale"},
	"02": {Agriculture, "Sylviculture et exploitation forestière"},
	"03": {Agriculture, "Pêche et aquaculture"},

	"05": {Energy, "Extraction de houille et de lignite"},
	"06": {Energy, "Extraction d'hydrocarbures"},
	"07": {Manufacturing, "Extraction de minerais métalliques"},
	"08": {Manufacturing, "Autres industries extractives"},
	"09": {Manufacturing, "Services de soutien aux industries extractives"},
	"10": {FoodBeverages, "Industries alimentaires"},
	"11": {FoodBeverages, "Fabrication de boissons"},
	"12": {CPG, "Fabrication de produits à base de tabac"},
	"13": {Manufacturing, "Fabrication de textiles"},
	"14": {Manufacturing, "Industrie de l'habillement"},
	"15": {Luxury, "Industrie du cuir et de la chaussure"},
	"16": {Manufacturing, "Travail du bois"},
	"17": {Manufacturing, "Industrie du papier et du carton"},
	"18": {Manufacturing, "Imprimerie et reproduction"},
	"19": {Energy, "Cokéfaction et raffinage"},
	"20": {Chemicals, "Industrie chimique"},
	"21": {Pharmaceutics, "Industrie pharmaceutique"},
	"22": {Manufacturing, "Fabrication de produits en caoutchouc et en plastique"},
	"23": {Manufacturing, "Fabrication d'autres produits minéraux non métalliques"},
	"24": {Manufacturing, "Métallurgie"},
	"25": {Manufacturing, "Fabrication de produits métalliques"},
	"26": {TechSoftware, "Fabrication de produits informatiques, électroniques et optiques"},
	"27": {Manufacturing, "Fabrication d'équipements électriques"},
	"28": {Manufacturing, "Fabrication de machines et équipements"},
	"29": {Manufacturing, "Industrie automobile"},
	"30": {Manufacturing, "Fabrication d'autres matériels de transport"},
	"31": {Manufacturing, "Fabrication de meubles"},
	"32": {CPG, "Autres industries manufacturières"},
	"33": {Manufacturing, "Réparation et installation de machines et d'équipements"},

	"35": {Energy, "Production et distribution d'électricité, de gaz"},
	"36": {Energy, "Captage, traitement et distribution d'eau"},
	"37": {Energy, "Collecte et traitement des eaux usées"},
	"38": {Energy, "Collecte, traitement et élimination des déchets"},
	"39": {Energy, "Dépollution et autres services de gestion des déchets"},

	"41": {Construction, "Construction de bâtiments"},
	"42": {Construction, "Génie civil"},
	"43": {Construction, "Travaux de construction spécialisés"},

	"45": {Retail, "Commerce et réparation d'automobiles et de motocycles"},
	"46": {Retail, "Commerce de gros"},
	"47": {Retail, "Commerce de détail"},

	"49": {Transportation, "Transports terrestres et transport par conduites"},
	"50": {Transportation, "Transports par eau"},
	"51": {Transportation, "Transports aériens"},
	"52": {Transportation, "Entreposage et services auxiliaires des transports"},
	"53": {Transportation, "Activités de poste et de courrier"},

	"55": {HotelsRestaurants, "Hébergement"},
	"56": {HotelsRestaurants, "Restauration"},

	"58": {Media, "Édition"},
	"59": {Media, "Production de films cinématographiques, vidéo et programmes de télévision"},
	"60": {Media, "Programmation et diffusion"},
	"61": {Media, "Télécommunications"},
	"62": {TechSoftware, "Programmation, conseil et autres activités informatiques"},
	"63": {TechSoftware, "Services d'information"},
	"64": {Banking, "Activités des services financiers"},
	"65": {Insurance, "Assurance"},
	"66": {FinanceRealEstate, "Activités auxiliaires de services financiers et d'assurance"},

	"68": {FinanceRealEstate, "Activités immobilières"},
	"69": {Consulting, "Activités juridiques et comptables"},
	"70": {Consulting, "Activités des sièges sociaux ; conseil de gestion"},
	"71": {Consulting, "Activités d'architecture et d'ingénierie"},
	"72": {TechSoftware, "Recherche-développement scientifique"},
	"73": {Media, "Publicité et études de marché"},
	"74": {Consulting, "Autres activités spécialisées, scientifiques et techniques"},
	"75": {Consulting, "Activités vétérinaires"},

	"77": {Manufacturing, "Activités de location et location-bail"},
	"78": {Consulting, "Activités liées à l'emploi"},
	"79": {HotelsRestaurants, "Activités des agences de voyage"},
	"80": {Consulting, "Enquêtes et sécurité"},
	"81": {Consulting, "Services relatifs aux bâtiments"},
	"82": {Consulting, "Activités administratives et autres activités de soutien aux entreprises"},

	"84": {PublicAdministration, "Administration publique"},
	"85": {Education, "Enseignement"},
	"86": {Healthcare, "Activités pour la santé humaine"},
	"87": {Healthcare, "Hébergement médico-social et social"},
	"88": {Healthcare, "Action sociale sans hébergement"},

	"90": {Media, "Activités créatives, artistiques et de spectacle"},
	"91": {Media, "Bibliothèques, archives, musées"},
	"92": {Media, "Organisation de jeux de hasard et d'argent"},
	"93": {Media, "Activités sportives, récréatives et de loisirs"},
	"94": {NotForProfit, "Activités des organisations associatives"},
	"95": {Retail, "Réparation d'ordinateurs et de biens personnels"},
	"96": {Consulting, "Autres services personnels"},
	"97": {Consulting, "Activités des ménages en tant qu'employeurs"},
	"98": {ToBeQualified, "Activités indifférenciées des ménages"},
	"99": {PublicAdministration, "Activités des organisations et organismes extraterritoriaux"},
}
