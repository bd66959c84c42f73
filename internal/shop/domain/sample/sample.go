// Package sample is the built-in catalog shown when the backend has no
// products or promotions tables yet.
package sample

import "naikai-shop/internal/shop/domain/models"

func img(id string) string {
	return "https://images.unsplash.com/photo-" + id + "?q=80&w=800&auto=format&fit=crop"
}

func choice(label string, priceMod float64) models.OptionChoice {
	return models.OptionChoice{Label: label, PriceMod: priceMod}
}

var products = []models.Product{
	{
		ID: "p1", Name: "ไก่ฮอทแอนด์สไปซี่", Description: "ไก่ทอดสูตรเด็ด เผ็ดร้อนถึงเครื่อง กรอบนอกนุ่มใน",
		Price: 45, Category: "chicken", Calories: "170 - 430 kcal", Image: img("1626645738196-c2a7c87a8f58"),
		Options: []models.ProductOption{
			{Name: "ชิ้นส่วน", Choices: []models.OptionChoice{choice("น่อง", 0), choice("สะโพก", 0), choice("อก", 0)}},
			{Name: "จำนวน", Choices: []models.OptionChoice{choice("1 ชิ้น", 0), choice("2 ชิ้น", 40)}},
		},
	},
	{
		ID: "p2", Name: "ไก่วิงซ์แซ่บ (3 ชิ้น)", Description: "ปีกไก่บนคลุกเคล้าผงลาบ รสจัดจ้าน",
		Price: 59, Category: "chicken", Calories: "100 kcal", Image: img("1569691899455-59756e8b7cb5"),
		Options: []models.ProductOption{
			{Name: "เพิ่มจำนวน", Choices: []models.OptionChoice{choice("3 ชิ้น", 0), choice("6 ชิ้น", 55)}},
		},
	},
	{
		ID: "p3", Name: "ไก่กรอบสูตรดั้งเดิม", Description: "ไก่ทอดสูตรลับ หมักเครื่องเทศ 11 ชนิด",
		Price: 45, Category: "chicken", Calories: "170 - 430 kcal", Image: img("1562967963-edec8561c305"),
		Options: []models.ProductOption{
			{Name: "ชิ้นส่วน", Choices: []models.OptionChoice{choice("น่อง", 0), choice("สะโพก", 0)}},
		},
	},
	{
		ID: "b1", Name: "ซิงเกอร์เบอร์เกอร์", Description: "เบอร์เกอร์ไก่กรอบชิ้นโต ผักสด ซอสมายองเนส",
		Price: 79, Category: "burger", Calories: "530 kcal", Image: img("1568901346375-23c9450c58cd"),
		Options: []models.ProductOption{
			{Name: "เพิ่มชีส", Choices: []models.OptionChoice{choice("ไม่เพิ่ม", 0), choice("เพิ่มชีส", 15)}},
		},
	},
	{
		ID: "b2", Name: "ข้าวไก่แซ่บโบว์ล", Description: "ข้าวสวยร้อนๆ ท็อปด้วยไก่แซ่บและหอมแดงซอย",
		Price: 69, Category: "burger", Calories: "640 kcal", Image: img("1604908176997-125f25cc6f3d"),
		Options: []models.ProductOption{
			{Name: "ระดับความเผ็ด", Choices: []models.OptionChoice{choice("ปกติ", 0), choice("เผ็ดน้อย", 0)}},
		},
	},
	{
		ID: "s1", Name: "ชิคเก้น ป๊อป", Description: "ไก่ป๊อปชิ้นพอดีคำ กรอบเคี้ยวเพลิน",
		Price: 39, Category: "snack", Calories: "300 kcal", Image: img("1563805042-7684c019e1cb"),
	},
	{
		ID: "s2", Name: "เฟรนช์ฟรายส์ (M)", Description: "มันฝรั่งทอดกรอบสีเหลืองทอง",
		Price: 45, Category: "snack", Calories: "230 kcal", Image: img("1630384060421-a4323ce66488"),
		Options: []models.ProductOption{
			{Name: "ขนาด", Choices: []models.OptionChoice{choice("กลาง (M)", 0), choice("ใหญ่ (L)", 20)}},
		},
	},
	{
		ID: "s3", Name: "นักเก็ตส์ (6 ชิ้น)", Description: "นักเก็ตไก่เนื้อเน้นๆ จิ้มซอสบาร์บีคิว",
		Price: 59, Category: "snack", Calories: "45 kcal/ชิ้น", Image: img("1569058242253-92a9c755a293"),
	},
	{
		ID: "s4", Name: "มันบด (S)", Description: "มันบดเนื้อเนียนราดน้ำเกรวี่ชุ่มฉ่ำ",
		Price: 35, Category: "snack", Calories: "50 kcal", Image: img("1619860098939-58b21c430263"),
	},
	{
		ID: "s5", Name: "โคลสลอว์", Description: "ผักกะหล่ำและแครอทคลุกเคล้ามายองเนส",
		Price: 35, Category: "snack", Calories: "180 kcal", Image: img("1623297966551-5120619a9f24"),
	},
	{
		ID: "d1", Name: "ทาร์ตไข่", Description: "แป้งพายกรอบ ไส้ไข่หอมหวานนุ่มลิ้น",
		Price: 29, Category: "dessert", Calories: "170 kcal", Image: img("1563588147690-3444465d666d"),
	},
	{
		ID: "d2", Name: "โคนวานิลลา", Description: "ไอศกรีมเนื้อเนียน รสวานิลลา",
		Price: 15, Category: "dessert", Calories: "130 kcal", Image: img("1551024601-562963525c53"),
	},
	{
		ID: "dr1", Name: "มัทฉะลาเต้เย็น", Description: "ชาเขียวมัทฉะเข้มข้น ผสมนมสด",
		Price: 45, Category: "drink", Calories: "150 kcal", Image: img("1582782501391-7d5697996d91"),
	},
	{
		ID: "dr2", Name: "ช็อกโกแลตร้อน", Description: "ช็อกโกแลตอุ่นๆ ท็อปด้วยฟองนม",
		Price: 40, Category: "drink", Calories: "120 kcal", Image: img("1542990253-0d0f5be5f0ed"),
	},
}

var promotions = []models.Promotion{
	{
		ID: "promo1", Title: "ชุดครอบครัวสุขสันต์ ลด 50%",
		Description: "เมื่อซื้อชุดไก่จุใจ 12 ชิ้น แถมฟรี เป๊ปซี่ 1.5 ลิตร",
		Image:       img("1513639776629-7b611d124754"), Active: true,
	},
	{
		ID: "promo2", Title: "ส่งฟรี 3 กิโลเมตรแรก",
		Description: "เมื่อสั่งครบ 300 บาทขึ้นไป",
		Image:       img("1615887023516-9dc7aca13271"), Active: true,
	},
}

// Products returns a fresh copy of the sample products.
func Products() []models.Product {
	out := make([]models.Product, len(products))
	for i, p := range products {
		out[i] = p.Clone()
	}
	return out
}

func Promotions() []models.Promotion {
	return append([]models.Promotion(nil), promotions...)
}
