package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role - закрытый набор ролей пользователей
// Сравнивается только через типизированные константы, без сырых строк
type Role string

const (
	RoleAdmin           Role = "admin"
	RoleCategoryManager Role = "category_manager"
	RolePepagoraManager Role = "pepagora_manager"
)

// AllRoles перечисляет допустимые роли (для валидации запросов)
var AllRoles = []Role{RoleAdmin, RoleCategoryManager, RolePepagoraManager}

// IsValid проверяет, что роль входит в закрытый набор
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleCategoryManager, RolePepagoraManager:
		return true
	}
	return false
}

// User представляет пользователя админ-консоли
type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email        string             `json:"email" bson:"email"`
	Username     string             `json:"username" bson:"username"`
	PasswordHash string             `json:"-" bson:"password_hash"` // не возвращаем в JSON
	Role         Role               `json:"role" bson:"role"`
	// SHA-256 хэш последнего выданного refresh токена; пустая строка = сессии нет
	RefreshTokenHash string    `json:"-" bson:"refresh_token_hash,omitempty"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" bson:"updated_at"`
}

// Category представляет корневую категорию каталога
type Category struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	MainCatName     string             `json:"main_cat_name" bson:"main_cat_name"`
	UniqueID        string             `json:"uniqueId" bson:"unique_id"`
	LiveURL         string             `json:"liveUrl,omitempty" bson:"live_url,omitempty"`
	MetaTitle       string             `json:"metaTitle,omitempty" bson:"meta_title,omitempty"`
	MetaKeyword     string             `json:"metaKeyword,omitempty" bson:"meta_keyword,omitempty"`
	MetaDescription string             `json:"metaDescription,omitempty" bson:"meta_description,omitempty"`
	ImageURL        string             `json:"imageUrl,omitempty" bson:"image_url,omitempty"`
	Description     string             `json:"description,omitempty" bson:"description,omitempty"`
	// Денормализованный список дочерних подкатегорий; только для отображения,
	// источником истины является mappedParent на стороне детей
	MappedChildren []primitive.ObjectID `json:"mappedChildren" bson:"mapped_children,omitempty"`
	CreatedAt      time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at" bson:"updated_at"`
}

// Subcategory представляет подкатегорию, привязанную к категории
type Subcategory struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SubCatName      string             `json:"sub_cat_name" bson:"sub_cat_name"`
	MappedParent    primitive.ObjectID `json:"mappedParent" bson:"mapped_parent"`
	UniqueID        string             `json:"uniqueId" bson:"unique_id"`
	LiveURL         string             `json:"liveUrl,omitempty" bson:"live_url,omitempty"`
	MetaTitle       string             `json:"metaTitle,omitempty" bson:"meta_title,omitempty"`
	MetaKeyword     string             `json:"metaKeyword,omitempty" bson:"meta_keyword,omitempty"`
	MetaDescription string             `json:"metaDescription,omitempty" bson:"meta_description,omitempty"`
	SubCatImgURL    string             `json:"sub_cat_img_url,omitempty" bson:"sub_cat_img_url,omitempty"`
	Description     string             `json:"description,omitempty" bson:"description,omitempty"`
	// Денормализованный список дочерних товаров, best-effort
	MappedChildren []primitive.ObjectID `json:"mappedChildren" bson:"mapped_children,omitempty"`
	CreatedAt      time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at" bson:"updated_at"`
}

// Product представляет товар, привязанный к подкатегории
type Product struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name            string             `json:"name" bson:"name"`
	MappedParent    primitive.ObjectID `json:"mappedParent" bson:"mapped_parent"`
	UniqueID        string             `json:"uniqueId" bson:"unique_id"`
	LiveURL         string             `json:"liveUrl,omitempty" bson:"live_url,omitempty"`
	MetaTitle       string             `json:"metaTitle,omitempty" bson:"meta_title,omitempty"`
	MetaKeyword     string             `json:"metaKeyword,omitempty" bson:"meta_keyword,omitempty"`
	MetaDescription string             `json:"metaDescription,omitempty" bson:"meta_description,omitempty"`
	ImageURL        string             `json:"imageUrl,omitempty" bson:"image_url,omitempty"`
	Description     string             `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}

// SubcategoryWithParent содержит подкатегорию с родительской категорией
type SubcategoryWithParent struct {
	Subcategory `bson:",inline"`
	Parent      *Category `json:"parent,omitempty" bson:"parent,omitempty"`
}

// ProductWithParents содержит товар с двумя уровнями родителей
// Собирается live-джойном на чтении (Product -> Subcategory -> Category)
type ProductWithParents struct {
	Product     `bson:",inline"`
	Subcategory *Subcategory `json:"subcategory,omitempty" bson:"subcategory,omitempty"`
	Category    *Category    `json:"category,omitempty" bson:"category,omitempty"`
}

// CatalogEvent представляет событие изменения каталога для Kafka
type CatalogEvent struct {
	EventType string    `json:"event_type"` // CATEGORY_CREATED, PRODUCT_DELETED и т.д.
	Entity    string    `json:"entity"`     // category | subcategory | product
	EntityID  string    `json:"entity_id"`
	Name      string    `json:"name"`
	ParentID  string    `json:"parent_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
