package store

import (
	"testing"

	"github.com/linkdeck/linkdeck/pkg/linkdeck/board"
	"github.com/linkdeck/linkdeck/pkg/linkdeck/gateway"
	"github.com/linkdeck/linkdeck/pkg/linkdeck/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	models.AutoMigrate(db)

	user := models.User{
		Email:        "op@example.com",
		PasswordHash: "irrelevant",
		Name:         "Operator",
		SystemRole:   models.SystemRoleAdmin,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create operator: %v", err)
	}
	for i, name := range []string{"Inbox", "Working", "Archive"} {
		cat := models.Category{Name: name, DisplayOrder: i + 1}
		if err := db.Create(&cat).Error; err != nil {
			t.Fatalf("Failed to create category: %v", err)
		}
	}
	return db
}

func setupStore(t *testing.T, db *gorm.DB) *Store {
	var operator models.User
	if err := db.First(&operator).Error; err != nil {
		t.Fatalf("Failed to load operator: %v", err)
	}
	st := New(gateway.New(db, operator.ID), board.DefaultSocialLinks())
	if err := st.Initialize(); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	return st
}

func categoryByTitle(t *testing.T, st *Store, title string) board.Category {
	t.Helper()
	for _, cat := range st.Categories() {
		if cat.Title == title {
			return cat
		}
	}
	t.Fatalf("Category %q not found", title)
	return board.Category{}
}

func createTestTag(t *testing.T, st *Store, name string) board.Tag {
	t.Helper()
	tag, err := st.AddTag(name, "#ff0000")
	if err != nil {
		t.Fatalf("Failed to create tag: %v", err)
	}
	return tag
}

func TestInitialize(t *testing.T) {
	db := setupTestDB(t)
	st := setupStore(t, db)

	cats := st.Categories()
	if len(cats) != 3 {
		t.Fatalf("Expected 3 categories, got %d", len(cats))
	}
	if cats[0].Title != "Inbox" || cats[1].Title != "Working" || cats[2].Title != "Archive" {
		t.Errorf("Categories out of display order: %v", cats)
	}
	if cats[0].Emoji != "🔴" || cats[1].Emoji != "🟡" || cats[2].Emoji != "⚪" {
		t.Errorf("Unexpected badges: %q %q %q", cats[0].Emoji, cats[1].Emoji, cats[2].Emoji)
	}
	if len(st.Activity()) != 0 {
		t.Error("Expected empty activity feed on a fresh board")
	}
}

func TestAddLinkIntoEmptyCategory(t *testing.T) {
	db := setupTestDB(t)
	st := setupStore(t, db)
	tag := createTestTag(t, st, "docs")
	inbox := categoryByTitle(t, st, "Inbox")

	link, err := st.AddLink(inbox.ID, "Docs", "https://docs.example.com", []uint{tag.ID})
	if err != nil {
		t.Fatalf("AddLink failed: %v", err)
	}

	if link.Order != 0 {
		t.Errorf("Expected order 0 in an empty category, got %d", link.Order)
	}
	if link.CategoryID != inbox.ID {
		t.Errorf("Expected category %d, got %d", inbox.ID, link.CategoryID)
	}
	if link.IsPinned {
		t.Error("New links must start unpinned")
	}

	feed := st.Activity()
	if len(feed) != 1 {
		t.Fatalf("Expected 1 activity entry, got %d", len(feed))
	}
	if feed[0].Type != models.ActionCreate {
		t.Errorf("Expected create entry, got %s", feed[0].Type)
	}
	if feed[0].ItemName != "Docs" {
		t.Errorf("Expected item name Docs, got %s", feed[0].ItemName)
	}
	if feed[0].Details != "Added to Inbox" {
		t.Errorf("Expected details 'Added to Inbox', got %q", feed[0].Details)
	}

	// Persisted with its tag association
	var row models.Link
	if err := db.Preload("Tags").First(&row, link.ID).Error; err != nil {
		t.Fatalf("Link row not persisted: %v", err)
	}
	if len(row.Tags) != 1 || row.Tags[0].ID != tag.ID {
		t.Errorf("Expected tag association to persist, got %v", row.Tags)
	}
}

func TestAddLinkAppendsAtTail(t *testing.T) {
	db := setupTestDB(t)
	st := setupStore(t, db)
	tag := createTestTag(t, st, "docs")
	inbox := categoryByTitle(t, st, "Inbox")

	st.AddLink(inbox.ID, "First", "https://a.example.com", []uint{tag.ID})
	second, err := st.AddLink(inbox.ID, "Second", "https://b.example.com", []uint{tag.ID})
	if err != nil {
		t.Fatalf("AddLink failed: %v", err)
	}
	if second.Order != 1 {
		t.Errorf("Expected order 1 for the second link, got %d", second.Order)
	}
}

func TestAddLinkUnknownCategory(t *testing.T) {
	db := setupTestDB(t)
	st := setupStore(t, db)
	tag := createTestTag(t, st, "docs")

	if _, err := st.AddLink(999, "Docs", "https://x", []uint{tag.ID}); err != ErrCategoryNotFound {
		t.Errorf("Expected ErrCategoryNotFound, got %v", err)
	}
	if len(st.Activity()) != 0 {
		t.Error("Failed create must not record activity")
	}
}

func TestUpdateLink(t *testing.T) {
	db := setupTestDB(t)
	st := setupStore(t, db)
	tagA := createTestTag(t, st, "a")
	tagB := createTestTag(t, st, "b")
	inbox := categoryByTitle(t, st, "Inbox")
	link, _ := st.AddLink(inbox.ID, "Docs", "https://docs.example.com", []uint{tagA.ID})

	name := "Handbook"
	if err := st.UpdateLink(link.ID, LinkUpdate{Name: &name, TagIDs: []uint{tagB.ID}}); err != nil {
		t.Fatalf("UpdateLink failed: %v", err)
	}

	got, _, found := st.LocateLink(link.ID)
	if !found {
		t.Fatal("Link disappeared from the mirror")
	}
	if got.Name != "Handbook" {
		t.Errorf("Expected renamed link, got %s", got.Name)
	}
	if len(got.TagIDs) != 1 || got.TagIDs[0] != tagB.ID {
		t.Errorf("Expected tag set replaced with [%d], got %v", tagB.ID, got.TagIDs)
	}

	feed := st.Activity()
	if feed[0].Type != models.ActionEdit || feed[0].ItemName != "Handbook" {
		t.Errorf("Expected edit entry for Handbook, got %+v", feed[0])
	}

	// Remote tag associations replaced wholesale
	var row models.Link
	db.Preload("Tags").First(&row, link.ID)
	if len(row.Tags) != 1 || row.Tags[0].ID != tagB.ID {
		t.Errorf("Expected persisted tag set [%d], got %v", tagB.ID, row.Tags)
	}
}

func TestUpdateLinkNoFields(t *testing.T) {
	db := setupTestDB(t)
	st := setupStore(t, db)
	tag := createTestTag(t, st, "docs")
	inbox := categoryByTitle(t, st, "Inbox")
	link, _ := st.AddLink(inbox.ID, "Docs", "https://docs.example.com", []uint{tag.ID})

	before := len(st.Activity())
	if err := st.UpdateLink(link.ID, LinkUpdate{}); err != nil {
		t.Fatalf("UpdateLink failed: %v", err)
	}

	// Nothing to change means nothing to record
	if len(st.Activity()) != before {
		t.Error("Empty update must not record activity")
	}
	got, _, _ := st.LocateLink(link.ID)
	if got.Name != "Docs" || len(got.TagIDs) != 1 {
		t.Errorf("Expected link untouched, got %+v", got)
	}
}

func TestDeleteLink(t *testing.T) {
	db := setupTestDB(t)
	st := setupStore(t, db)
	tag := createTestTag(t, st, "docs")
	inbox := categoryByTitle(t, st, "Inbox")
	link, _ := st.AddLink(inbox.ID, "Docs", "https://docs.example.com", []uint{tag.ID})

	if err := st.DeleteLink(inbox.ID, link.ID); err != nil {
		t.Fatalf("DeleteLink failed: %v", err)
	}

	if _, _, found := st.LocateLink(link.ID); found {
		t.Error("Link should be gone from the mirror")
	}
	feed := st.Activity()
	if feed[0].Type != models.ActionDelete || feed[0].Details != "Removed from Inbox" {
		t.Errorf("Expected delete entry, got %+v", feed[0])
	}

	var count int64
	db.Model(&models.Link{}).Where("id = ?", link.ID).Count(&count)
	if count != 0 {
		t.Error("Link row should be deleted")
	}
}

func TestTogglePinnedCycle(t *testing.T) {
	db := setupTestDB(t)
	st := setupStore(t, db)
	tag := createTestTag(t, st, "docs")
	inbox := categoryByTitle(t, st, "Inbox")
	link, _ := st.AddLink(inbox.ID, "Docs", "https://docs.example.com", []uint{tag.ID})

	pinned, err := st.TogglePinned(inbox.ID, link.ID)
	if err != nil {
		t.Fatalf("TogglePinned failed: %v", err)
	}
	if !pinned {
		t.Error("Expected pinned=true after first toggle")
	}
	feed := st.Activity()
	if feed[0].Type != models.ActionPin || feed[0].Details != "Pinned" {
		t.Errorf("Expected pin entry, got %+v", feed[0])
	}

	pinned, err = st.TogglePinned(inbox.ID, link.ID)
	if err != nil {
		t.Fatalf("TogglePinned failed: %v", err)
	}
	if pinned {
		t.Error("Expected pinned=false after second toggle")
	}
	feed = st.Activity()
	if feed[0].Type != models.ActionUnpin || feed[0].Details != "Unpinned" {
		t.Errorf("Expected unpin entry, got %+v", feed[0])
	}

	// Unknown id is a silent no-op
	before := len(st.Activity())
	if _, err := st.TogglePinned(inbox.ID, 999); err != nil {
		t.Errorf("Unknown link toggle should not error, got %v", err)
	}
	if len(st.Activity()) != before {
		t.Error("Unknown link toggle must not record activity")
	}
}

func TestMoveLink(t *testing.T) {
	db := setupTestDB(t)
	st := setupStore(t, db)
	tag := createTestTag(t, st, "docs")
	inbox := categoryByTitle(t, st, "Inbox")
	working := categoryByTitle(t, st, "Working")

	a, _ := st.AddLink(inbox.ID, "A", "https://a", []uint{tag.ID})
	st.AddLink(inbox.ID, "B", "https://b", []uint{tag.ID})
	st.AddLink(working.ID, "C", "https://c", []uint{tag.ID})

	if err := st.MoveLink(inbox.ID, working.ID, a.ID); err != nil {
		t.Fatalf("MoveLink failed: %v", err)
	}

	inbox = categoryByTitle(t, st, "Inbox")
	if len(inbox.Links) != 1 || inbox.Links[0].Name != "B" {
		t.Fatalf("Expected Inbox to hold only B, got %v", inbox.Links)
	}
	// The survivor keeps its prior order value, even though it is no
	// longer contiguous from zero
	if inbox.Links[0].Order != 1 {
		t.Errorf("Expected survivor to keep order 1, got %d", inbox.Links[0].Order)
	}

	working = categoryByTitle(t, st, "Working")
	if len(working.Links) != 2 {
		t.Fatalf("Expected 2 links in Working, got %d", len(working.Links))
	}
	moved := working.Links[1]
	if moved.ID != a.ID || moved.Order != 1 || moved.CategoryID != working.ID {
		t.Errorf("Unexpected moved link: %+v", moved)
	}

	var row models.Link
	db.First(&row, a.ID)
	if row.CategoryID != working.ID || row.Position != 1 {
		t.Errorf("Expected persisted category %d position 1, got %d/%d", working.ID, row.CategoryID, row.Position)
	}

	feed := st.Activity()
	if feed[0].Type != models.ActionMove || feed[0].Details != "Moved from Inbox to Working" {
		t.Errorf("Expected move entry, got %+v", feed[0])
	}
}

func TestMoveLinkSameCategory(t *testing.T) {
	db := setupTestDB(t)
	st := setupStore(t, db)
	tag := createTestTag(t, st, "docs")
	inbox := categoryByTitle(t, st, "Inbox")

	a, _ := st.AddLink(inbox.ID, "A", "https://a", []uint{tag.ID})
	b, _ := st.AddLink(inbox.ID, "B", "https://b", []uint{tag.ID})

	before := len(st.Activity())
	if err := st.MoveLink(inbox.ID, inbox.ID, a.ID); err != nil {
		t.Fatalf("MoveLink failed: %v", err)
	}

	inbox = categoryByTitle(t, st, "Inbox")
	if len(inbox.Links) != 2 {
		t.Fatalf("Expected 2 links after a same-category move, got %d", len(inbox.Links))
	}
	copies := 0
	for _, l := range inbox.Links {
		if l.ID == a.ID {
			copies++
		}
	}
	if copies != 1 {
		t.Errorf("Expected exactly one copy of the link, got %d", copies)
	}
	if inbox.Links[0].Order != 0 || inbox.Links[1].Order != 1 {
		t.Errorf("Expected orders untouched, got %d/%d", inbox.Links[0].Order, inbox.Links[1].Order)
	}

	var row models.Link
	db.First(&row, a.ID)
	if row.Position != 0 {
		t.Errorf("Expected persisted position untouched, got %d", row.Position)
	}
	if len(st.Activity()) != before {
		t.Error("Same-category move must not record activity")
	}

	// The category is still reorderable afterwards
	seq := []board.Link{inbox.Links[1], inbox.Links[0]}
	for i := range seq {
		seq[i].Order = i
	}
	if err := st.ReorderLinks(inbox.ID, seq); err != nil {
		t.Fatalf("ReorderLinks failed after same-category move: %v", err)
	}
	inbox = categoryByTitle(t, st, "Inbox")
	if inbox.Links[0].ID != b.ID {
		t.Errorf("Expected B first after reorder, got link %d", inbox.Links[0].ID)
	}
}

func TestMoveLinkUnknownCategory(t *testing.T) {
	db := setupTestDB(t)
	st := setupStore(t, db)
	inbox := categoryByTitle(t, st, "Inbox")

	if err := st.MoveLink(inbox.ID, 999, 1); err != ErrCategoryNotFound {
		t.Errorf("Expected ErrCategoryNotFound, got %v", err)
	}
}

func TestReorderLinks(t *testing.T) {
	db := setupTestDB(t)
	st := setupStore(t, db)
	tag := createTestTag(t, st, "docs")
	inbox := categoryByTitle(t, st, "Inbox")

	a, _ := st.AddLink(inbox.ID, "A", "https://a", []uint{tag.ID})
	b, _ := st.AddLink(inbox.ID, "B", "https://b", []uint{tag.ID})
	c, _ := st.AddLink(inbox.ID, "C", "https://c", []uint{tag.ID})

	before := len(st.Activity())

	// Reverse the sequence with fresh dense orders
	seq := []board.Link{c, b, a}
	for i := range seq {
		seq[i].Order = i
	}
	if err := st.ReorderLinks(inbox.ID, seq); err != nil {
		t.Fatalf("ReorderLinks failed: %v", err)
	}

	inbox = categoryByTitle(t, st, "Inbox")
	want := []uint{c.ID, b.ID, a.ID}
	for i, l := range inbox.Links {
		if l.ID != want[i] || l.Order != i {
			t.Errorf("Position %d: expected link %d order %d, got %d/%d", i, want[i], i, l.ID, l.Order)
		}
	}

	// Pure reorders leave no audit trail
	if len(st.Activity()) != before {
		t.Error("Reorder must not record activity")
	}

	var row models.Link
	db.First(&row, a.ID)
	if row.Position != 2 {
		t.Errorf("Expected persisted position 2 for A, got %d", row.Position)
	}
}

func TestDeleteTagCascade(t *testing.T) {
	db := setupTestDB(t)
	st := setupStore(t, db)
	tagA := createTestTag(t, st, "a")
	tagB := createTestTag(t, st, "b")
	inbox := categoryByTitle(t, st, "Inbox")
	link, _ := st.AddLink(inbox.ID, "Docs", "https://docs.example.com", []uint{tagA.ID, tagB.ID})

	if err := st.DeleteTag(tagA.ID); err != nil {
		t.Fatalf("DeleteTag failed: %v", err)
	}

	got, _, _ := st.LocateLink(link.ID)
	if len(got.TagIDs) != 1 || got.TagIDs[0] != tagB.ID {
		t.Errorf("Expected tag %d cleared from the link, got %v", tagA.ID, got.TagIDs)
	}
	if len(st.Tags()) != 1 {
		t.Errorf("Expected 1 remaining tag, got %d", len(st.Tags()))
	}

	// Deleting the last tag leaves an empty set, not an error
	if err := st.DeleteTag(tagB.ID); err != nil {
		t.Fatalf("Deleting the last tag failed: %v", err)
	}
	got, _, _ = st.LocateLink(link.ID)
	if len(got.TagIDs) != 0 {
		t.Errorf("Expected empty tag set, got %v", got.TagIDs)
	}
}

func TestUpdateTag(t *testing.T) {
	db := setupTestDB(t)
	st := setupStore(t, db)
	tag := createTestTag(t, st, "docs")

	name := "reference"
	color := "#00ff00"
	if err := st.UpdateTag(tag.ID, &name, &color); err != nil {
		t.Fatalf("UpdateTag failed: %v", err)
	}

	tags := st.Tags()
	if tags[0].Name != "reference" || tags[0].Color != "#00ff00" {
		t.Errorf("Unexpected tag after update: %+v", tags[0])
	}

	var row models.Tag
	db.First(&row, tag.ID)
	if row.Name != "reference" {
		t.Errorf("Expected persisted rename, got %s", row.Name)
	}
}

func TestUpdateCategoryTitle(t *testing.T) {
	db := setupTestDB(t)
	st := setupStore(t, db)
	inbox := categoryByTitle(t, st, "Inbox")

	if err := st.UpdateCategoryTitle(inbox.ID, "Queue"); err != nil {
		t.Fatalf("UpdateCategoryTitle failed: %v", err)
	}
	categoryByTitle(t, st, "Queue")

	if err := st.UpdateCategoryTitle(999, "Nope"); err != ErrCategoryNotFound {
		t.Errorf("Expected ErrCategoryNotFound, got %v", err)
	}
}

func TestActivityFeedCap(t *testing.T) {
	db := setupTestDB(t)
	st := setupStore(t, db)
	tag := createTestTag(t, st, "docs")
	inbox := categoryByTitle(t, st, "Inbox")
	link, _ := st.AddLink(inbox.ID, "Docs", "https://docs.example.com", []uint{tag.ID})

	// One create entry plus 101 toggles exceeds the cap by two
	for i := 0; i < 101; i++ {
		if _, err := st.TogglePinned(inbox.ID, link.ID); err != nil {
			t.Fatalf("TogglePinned failed: %v", err)
		}
	}

	feed := st.Activity()
	if len(feed) != 100 {
		t.Fatalf("Expected feed capped at 100 entries, got %d", len(feed))
	}
	// 101 toggles from unpinned end on a pin
	if feed[0].Type != models.ActionPin {
		t.Errorf("Expected newest entry to be a pin, got %s", feed[0].Type)
	}
}

func TestInitializeReload(t *testing.T) {
	db := setupTestDB(t)
	st := setupStore(t, db)
	tag := createTestTag(t, st, "docs")
	inbox := categoryByTitle(t, st, "Inbox")
	link, _ := st.AddLink(inbox.ID, "Docs", "https://docs.example.com", []uint{tag.ID})
	st.TogglePinned(inbox.ID, link.ID)

	// A fresh store over the same database sees the same board
	st2 := setupStore(t, db)

	got, catID, found := st2.LocateLink(link.ID)
	if !found {
		t.Fatal("Link missing after reload")
	}
	if catID != inbox.ID || !got.IsPinned || got.Name != "Docs" {
		t.Errorf("Unexpected link after reload: %+v in category %d", got, catID)
	}
	if len(got.TagIDs) != 1 || got.TagIDs[0] != tag.ID {
		t.Errorf("Expected tag ids to survive reload, got %v", got.TagIDs)
	}
	if len(st2.Tags()) != 1 {
		t.Errorf("Expected 1 tag after reload, got %d", len(st2.Tags()))
	}
	// The persisted audit feed is loaded too
	if len(st2.Activity()) != 2 {
		t.Errorf("Expected 2 activity entries after reload, got %d", len(st2.Activity()))
	}
}

func TestUIToggles(t *testing.T) {
	db := setupTestDB(t)
	st := setupStore(t, db)

	if st.UIState().DarkMode {
		t.Error("Dark mode should start off")
	}
	if !st.ToggleDarkMode() {
		t.Error("Expected dark mode on after toggle")
	}
	if !st.ToggleTagManager() {
		t.Error("Expected tag manager open after toggle")
	}
	if !st.ToggleActivityLog() {
		t.Error("Expected activity log open after toggle")
	}
	ui := st.UIState()
	if !ui.DarkMode || !ui.TagManagerOpen || !ui.ActivityLogOpen {
		t.Errorf("Unexpected UI state: %+v", ui)
	}
}

func TestCategoriesReturnsCopies(t *testing.T) {
	db := setupTestDB(t)
	st := setupStore(t, db)
	tag := createTestTag(t, st, "docs")
	inbox := categoryByTitle(t, st, "Inbox")
	st.AddLink(inbox.ID, "Docs", "https://docs.example.com", []uint{tag.ID})

	cats := st.Categories()
	for i := range cats {
		if cats[i].ID == inbox.ID {
			cats[i].Links[0].Name = "Mutated"
		}
	}

	got, _, _ := st.LocateLink(cats[0].Links[0].ID)
	if got.Name != "Docs" {
		t.Error("Mutating a returned category must not affect the mirror")
	}
}
