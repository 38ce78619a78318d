package catalog

import (
	"time"

	"github.com/dukerupert/wagsales/internal/domain"
	"github.com/shopspring/decimal"
)

// SeedProducts returns the built-in mock catalog used when no database is configured.
func SeedProducts() []domain.Product {
	return []domain.Product{
		{
			ID: "1", Name: "Smartphone Galaxy Nova 5G", Slug: "smartphone-galaxy-nova-5g",
			Description:      "Tela AMOLED de 6,5 polegadas, câmera tripla de 108MP e bateria de 5000mAh.",
			ShortDescription: "Smartphone 5G com câmera de 108MP",
			Price:            money("1899.90"), OriginalPrice: moneyPtr("2299.90"),
			Category: "eletronicos", CategoryName: "Eletrônicos",
			Tags:  []string{"smartphone", "5g", "android"},
			Stock: 25, Rating: 4.7, ReviewCount: 1280, Brand: "Samsung", SKU: "ELE-SGN-5G",
			Variants: []domain.ProductVariant{
				variant("1-c1", domain.VariantColor, "Preto", "preto", "", 0),
				variant("1-c2", domain.VariantColor, "Azul", "azul", "", -10),
				variant("1-s1", domain.VariantSize, "256GB", "256gb", "300.00", -15),
			},
			Featured: true, Bestseller: true, FreeShipping: true,
			CreatedAt: date(2025, 3, 10),
		},
		{
			ID: "2", Name: "Notebook UltraSlim 14", Slug: "notebook-ultraslim-14",
			Description:      "Notebook leve com processador de 8 núcleos, 16GB de RAM e SSD de 512GB.",
			ShortDescription: "Leve, rápido e com bateria para o dia todo",
			Price:            money("4599.00"),
			Category:         "eletronicos", CategoryName: "Eletrônicos",
			Tags:  []string{"notebook", "trabalho", "portatil"},
			Stock: 8, Rating: 4.8, ReviewCount: 342, Brand: "Dell", SKU: "ELE-DUS-14",
			Featured: true, IsNew: true, FreeShipping: true,
			CreatedAt: date(2025, 9, 2),
		},
		{
			ID: "3", Name: "Fone Bluetooth Pulse", Slug: "fone-bluetooth-pulse",
			Description: "Cancelamento de ruído ativo e até 30 horas de reprodução.",
			Price:       money("349.90"), OriginalPrice: moneyPtr("499.90"),
			Category: "eletronicos", CategoryName: "Eletrônicos",
			Tags:  []string{"audio", "bluetooth", "fone"},
			Stock: 60, Rating: 4.5, ReviewCount: 2210, Brand: "JBL", SKU: "ELE-JBP-01",
			Variants: []domain.ProductVariant{
				variant("3-c1", domain.VariantColor, "Preto", "preto", "", 0),
				variant("3-c2", domain.VariantColor, "Branco", "branco", "20.00", -40),
			},
			Bestseller: true,
			CreatedAt:  date(2024, 11, 20),
		},
		{
			ID: "4", Name: "Camiseta Algodão Orgânico", Slug: "camiseta-algodao-organico",
			Description:      "Camiseta básica de algodão orgânico certificado, modelagem regular.",
			ShortDescription: "Conforto sustentável",
			Price:            money("79.90"),
			Category:         "moda", CategoryName: "Moda",
			Tags:  []string{"camiseta", "algodao", "sustentavel"},
			Stock: 120, Rating: 4.3, ReviewCount: 410, Brand: "Hering", SKU: "MOD-HCO-01",
			Variants: []domain.ProductVariant{
				variant("4-s1", domain.VariantSize, "P", "P", "", -100),
				variant("4-s2", domain.VariantSize, "M", "M", "", 0),
				variant("4-s3", domain.VariantSize, "G", "G", "", -60),
				variant("4-s4", domain.VariantSize, "GG", "GG", "10.00", -110),
				variant("4-c1", domain.VariantColor, "Branca", "branca", "", 0),
				variant("4-c2", domain.VariantColor, "Verde", "verde", "5.00", -20),
			},
			IsNew:     true,
			CreatedAt: date(2025, 8, 14),
		},
		{
			ID: "5", Name: "Tênis Corrida Aero", Slug: "tenis-corrida-aero",
			Description: "Tênis de corrida com amortecimento responsivo e cabedal respirável.",
			Price:       money("499.90"), OriginalPrice: moneyPtr("649.90"),
			Category: "esportes", CategoryName: "Esportes",
			Tags:  []string{"corrida", "tenis", "treino"},
			Stock: 30, Rating: 4.6, ReviewCount: 875, Brand: "Nike", SKU: "ESP-NCA-01",
			Variants: []domain.ProductVariant{
				variant("5-s1", domain.VariantSize, "39", "39", "", -20),
				variant("5-s2", domain.VariantSize, "40", "40", "", -10),
				variant("5-s3", domain.VariantSize, "41", "41", "", 0),
				variant("5-s4", domain.VariantSize, "42", "42", "", -25),
			},
			Featured: true, Bestseller: true, FreeShipping: true,
			CreatedAt: date(2025, 1, 5),
		},
		{
			ID: "6", Name: "Jaqueta Corta-Vento", Slug: "jaqueta-corta-vento",
			Description: "Jaqueta leve impermeável com capuz e bolsos com zíper.",
			Price:       money("259.90"),
			Category:    "moda", CategoryName: "Moda",
			Tags:  []string{"jaqueta", "inverno", "impermeavel"},
			Stock: 0, Rating: 4.1, ReviewCount: 96, Brand: "Adidas", SKU: "MOD-ACV-01",
			CreatedAt: date(2024, 6, 1),
		},
		{
			ID: "7", Name: "Luminária de Mesa Articulada", Slug: "luminaria-mesa-articulada",
			Description: "Luminária LED com braço articulado e três temperaturas de cor.",
			Price:       money("149.90"),
			Category:    "casa-decoracao", CategoryName: "Casa & Decoração",
			Tags:  []string{"iluminacao", "escritorio", "led"},
			Stock: 42, Rating: 4.4, ReviewCount: 188, Brand: "Tok&Stok", SKU: "CAS-TLA-01",
			Variants: []domain.ProductVariant{
				variant("7-m1", domain.VariantMaterial, "Metal", "metal", "", 0),
				variant("7-m2", domain.VariantMaterial, "Madeira", "madeira", "30.00", -30),
			},
			IsNew:     true,
			CreatedAt: date(2025, 7, 22),
		},
		{
			ID: "8", Name: "Jogo de Panelas Antiaderente", Slug: "jogo-panelas-antiaderente",
			Description: "Conjunto com 5 peças antiaderentes compatível com indução.",
			Price:       money("389.00"), OriginalPrice: moneyPtr("459.00"),
			Category: "casa-decoracao", CategoryName: "Casa & Decoração",
			Tags:  []string{"cozinha", "panelas", "inducao"},
			Stock: 15, Rating: 4.7, ReviewCount: 1532, Brand: "Tramontina", SKU: "CAS-TPA-05",
			Bestseller: true, FreeShipping: true,
			CreatedAt: date(2024, 9, 9),
		},
		{
			ID: "9", Name: "Bicicleta Aro 29", Slug: "bicicleta-aro-29",
			Description: "Mountain bike com quadro de alumínio, 21 marchas e freio a disco.",
			Price:       money("1649.00"),
			Category:    "esportes", CategoryName: "Esportes",
			Tags:  []string{"bicicleta", "mtb", "ciclismo"},
			Stock: 4, Rating: 4.2, ReviewCount: 77, Brand: "Caloi", SKU: "ESP-CA29-01",
			Featured: true, FreeShipping: true,
			CreatedAt: date(2025, 4, 18),
		},
		{
			ID: "10", Name: "Perfume Floral Eau de Parfum", Slug: "perfume-floral-edp",
			Description: "Fragrância floral frutada com notas de peônia e pera.",
			Price:       money("219.90"),
			Category:    "beleza", CategoryName: "Beleza",
			Tags:  []string{"perfume", "feminino", "floral"},
			Stock: 33, Rating: 4.9, ReviewCount: 640, Brand: "O Boticário", SKU: "BEL-OBF-100",
			Variants: []domain.ProductVariant{
				variant("10-s1", domain.VariantSize, "50ml", "50ml", "-70.00", 0),
				variant("10-s2", domain.VariantSize, "100ml", "100ml", "", 0),
			},
			Featured: true, Bestseller: true,
			CreatedAt: date(2025, 2, 27),
		},
		{
			ID: "11", Name: "Kit Skincare Vitamina C", Slug: "kit-skincare-vitamina-c",
			Description: "Sérum, hidratante e protetor solar com vitamina C estabilizada.",
			Price:       money("159.90"), OriginalPrice: moneyPtr("199.90"),
			Category: "beleza", CategoryName: "Beleza",
			Tags:  []string{"skincare", "vitamina-c", "kit"},
			Stock: 50, Rating: 4.6, ReviewCount: 903, Brand: "Natura", SKU: "BEL-NVC-KIT",
			IsNew:     true,
			CreatedAt: date(2025, 9, 30),
		},
		{
			ID: "12", Name: "Box Trilogia Fantasia", Slug: "box-trilogia-fantasia",
			Description: "Box com os três volumes da saga em capa dura.",
			Price:       money("129.90"),
			Category:    "livros", CategoryName: "Livros",
			Tags:  []string{"fantasia", "box", "capa-dura"},
			Stock: 70, Rating: 4.9, ReviewCount: 2804, Brand: "Rocco", SKU: "LIV-RTF-BOX",
			Bestseller: true,
			CreatedAt:  date(2023, 12, 1),
		},
		{
			ID: "13", Name: "Console Portátil Switch Lite", Slug: "console-portatil-switch-lite",
			Description: "Console portátil compacto com tela de 5,5 polegadas.",
			Price:       money("1499.00"),
			Category:    "games", CategoryName: "Games",
			Tags:  []string{"console", "portatil", "nintendo"},
			Stock: 12, Rating: 4.8, ReviewCount: 1120, Brand: "Nintendo", SKU: "GAM-NSL-01",
			Variants: []domain.ProductVariant{
				variant("13-c1", domain.VariantColor, "Turquesa", "turquesa", "", 0),
				variant("13-c2", domain.VariantColor, "Coral", "coral", "", -8),
			},
			Featured: true, FreeShipping: true,
			CreatedAt: date(2024, 10, 15),
		},
		{
			ID: "14", Name: "Controle Sem Fio Pro", Slug: "controle-sem-fio-pro",
			Description: "Controle sem fio com gatilhos adaptáveis e bateria recarregável.",
			Price:       money("399.90"), OriginalPrice: moneyPtr("449.90"),
			Category: "games", CategoryName: "Games",
			Tags:  []string{"controle", "acessorio", "bluetooth"},
			Stock: 3, Rating: 4.5, ReviewCount: 512, Brand: "Sony", SKU: "GAM-SCP-01",
			IsNew:     true,
			CreatedAt: date(2025, 10, 1),
		},
		{
			ID: "15", Name: "Café Especial em Grãos 1kg", Slug: "cafe-especial-graos-1kg",
			Description: "Café arábica torra média com notas de chocolate e caramelo.",
			Price:       money("89.90"),
			Category:    "alimentos-bebidas", CategoryName: "Alimentos & Bebidas",
			Tags:  []string{"cafe", "graos", "arabica"},
			Stock: 200, Rating: 4.8, ReviewCount: 1876, Brand: "Orfeu", SKU: "ALI-ORF-1KG",
			Variants: []domain.ProductVariant{
				variant("15-o1", domain.VariantOther, "Moagem fina", "moido", "", 0),
				variant("15-o2", domain.VariantOther, "Grãos", "graos", "", 0),
			},
			Bestseller: true,
			CreatedAt:  date(2024, 3, 3),
		},
		{
			ID: "16", Name: "Garrafa Térmica Inox 750ml", Slug: "garrafa-termica-inox-750ml",
			Description: "Mantém bebidas geladas por 24h e quentes por 12h.",
			Price:       money("119.90"),
			Category:    "esportes", CategoryName: "Esportes",
			Tags:  []string{"garrafa", "inox", "hidratacao"},
			Stock: 0, Rating: 4.4, ReviewCount: 233, Brand: "Stanley", SKU: "ESP-STG-750",
			CreatedAt: date(2025, 5, 12),
		},
	}
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func moneyPtr(s string) *decimal.Decimal {
	d := money(s)
	return &d
}

func variant(id string, typ domain.VariantType, name, value, priceMod string, stockMod int) domain.ProductVariant {
	v := domain.ProductVariant{ID: id, Type: typ, Name: name, Value: value}
	if priceMod != "" {
		v.PriceModifier = moneyPtr(priceMod)
	}
	if stockMod != 0 {
		v.StockModifier = &stockMod
	}
	return v
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}
