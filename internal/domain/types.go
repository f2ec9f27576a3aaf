package domain

type (
	Email     = string
	Password  = string
	AccountId = int64
	ContentId = int64
	Realm     = string
	Slug      = string
)

const (
	RealmBlog    Realm = "blog"
	RealmEvent   Realm = "event"
	RealmCountry Realm = "country"
)
