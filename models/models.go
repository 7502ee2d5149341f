// Package models defines the GORM schema of the annotation platform.
package models

// All lists every model for AutoMigrate.
func All() []any {
	return []any{
		&AuthGroup{}, &User{}, &Team{}, &UserProfile{}, &BadgeAward{},
		&Document{}, &Section{}, &Pubtator{},
		&View{}, &Annotation{}, &Relation{}, &RelationAnswer{}, &Comment{},
		&Group{}, &Task{}, &UserQuestRelationship{}, &Level{},
		&Point{}, &Report{}, &Subscriber{},
	}
}
