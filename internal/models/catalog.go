package models

// FallbackDriverNames and FallbackDriverPhotos are paired by index.
var FallbackDriverNames = []string{
	"João Silva", "Carlos Santos", "Marcos Oliveira", "Lucas Pereira", "Rafael Costa",
	"Fernando Lima", "André Souza", "Bruno Alves", "Diego Martins", "Eduardo Rocha",
	"Gabriel Ferreira", "Henrique Gomes", "Igor Barbosa", "Júlio Nascimento", "Leandro Carvalho",
	"Márcio Ribeiro", "Nelson Freitas", "Otávio Mendes", "Paulo Araújo", "Ricardo Teixeira",
}

var FallbackDriverPhotos = []string{
	"https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=150&h=150&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1500648767791-00dcc994a43e?w=150&h=150&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1506794778202-cad84cf45f1d?w=150&h=150&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=150&h=150&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1519085360753-af0119f7cbe7?w=150&h=150&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1522075469751-3a6694fb2f61?w=150&h=150&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1463453091185-61582044d556?w=150&h=150&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1521341957697-b93449760f30?w=150&h=150&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1489980557514-251d61e3eeb6?w=150&h=150&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1504257432389-52343af06ae3?w=150&h=150&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1492562080023-ab3db95bfbce?w=150&h=150&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1534030347209-467a5b0ad3e6?w=150&h=150&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1528892952291-009c663ce843?w=150&h=150&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1548449112-96a38a643324?w=150&h=150&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1545167622-3a6ac756afa4?w=150&h=150&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1552058544-f2b08422138a?w=150&h=150&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1506634572416-48cdfe530110?w=150&h=150&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1560250097-0b93528c311a?w=150&h=150&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1564564321837-a57b7070ac4f?w=150&h=150&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1557862921-37829c790f19?w=150&h=150&fit=crop&crop=face",
}

var LocationLabels = []string{
	"Centro", "Próximo ao Shopping", "Zona Norte", "Av. Principal",
	"Praça Central", "Terminal Rodoviário", "Parque Municipal", "Zona Sul",
}

var Vehicles = []string{
	"Moto Honda CG 160", "Moto Yamaha Fazer", "Moto Honda Bros",
	"Moto Yamaha Factor", "Moto Honda Fan", "Moto Yamaha XTZ",
}
