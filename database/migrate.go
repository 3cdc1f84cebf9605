package database

import (
	"github.com/carelinkvn/clinic-app/models"
	"github.com/carelinkvn/clinic-app/utils"
	"gorm.io/gorm"
)

// Migrate chay AutoMigrate theo thu tu khoa ngoai
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.MedicalService{},
		&models.Appointment{},
		&models.PatientTreatment{},
		&models.BlogCategory{},
		&models.Blog{},
		&models.Permission{},
		&models.Order{},
		&models.OrderItem{},
		&models.PaymentTransaction{},
		&models.Notification{},
	)
	if err != nil {
		return err
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	return seedPermissions(db)
}

// Danh sach quyen mac dinh cho giao dien quan tri
var defaultPermissions = []models.Permission{
	{Name: "orders.manage", Description: "Tao, cap nhat va huy don dich vu"},
	{Name: "payments.manage", Description: "Xem giao dich va huy thanh toan cho xu ly"},
	{Name: "appointments.manage", Description: "Quan ly lich hen kham"},
	{Name: "treatments.manage", Description: "Quan ly phac do dieu tri"},
	{Name: "blogs.manage", Description: "Viet va xuat ban bai viet"},
	{Name: "users.manage", Description: "Quan ly tai khoan nguoi dung"},
	{Name: "dashboard.view", Description: "Xem so lieu tong quan"},
}

func seedPermissions(db *gorm.DB) error {
	for _, p := range defaultPermissions {
		perm := p
		if err := db.Where(models.Permission{Name: perm.Name}).
			FirstOrCreate(&perm).Error; err != nil {
			utils.ErrorLogger.Printf("Error seeding permission %s: %v", p.Name, err)
			return err
		}
	}
	utils.InfoLogger.Printf("Seeded %d default permissions", len(defaultPermissions))
	return nil
}
