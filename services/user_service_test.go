package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brims-http-service/models"
	"brims-http-service/utils"
)

func TestAddUserHashesPassword(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, testConfig())

	account, err := svc.AddUser("alice", "alice@x.com", "pw12345", RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, RoleStaff, account.Role)
	assert.Equal(t, models.StaffStatusActive, account.Status)

	var staff models.Staff
	require.NoError(t, db.First(&staff, account.ID).Error)
	assert.NotEqual(t, "pw12345", staff.Password)
	assert.True(t, utils.CheckPasswordHash("pw12345", staff.Password))
}

func TestCreateHooksHashPlaintextOnce(t *testing.T) {
	db := setupTestDB(t)

	// create fires BeforeSave and then BeforeCreate; the stored value must
	// be a single bcrypt hash of the plaintext, not a hash of the hash
	staff := models.Staff{Username: "hooked", Password: "pw12345", Email: "h@x.com"}
	require.NoError(t, db.Create(&staff).Error)
	assert.Len(t, staff.Password, 60)
	assert.True(t, utils.CheckPasswordHash("pw12345", staff.Password))

	admin := models.Admin{Username: "hooked", Password: "adminpw", Email: "h@x.com"}
	require.NoError(t, db.Create(&admin).Error)
	assert.Len(t, admin.Password, 60)
	assert.True(t, utils.CheckPasswordHash("adminpw", admin.Password))

	// re-saving an already hashed row leaves the hash untouched
	before := staff.Password
	require.NoError(t, db.Save(&staff).Error)
	assert.Equal(t, before, staff.Password)
}

func TestAddUserValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, testConfig())

	_, err := svc.AddUser("", "a@x.com", "pw", RoleStaff)
	assert.Error(t, err)
	_, err = svc.AddUser("bob", "not-an-email", "pw", RoleStaff)
	assert.Error(t, err)
	_, err = svc.AddUser("bob", "b@x.com", "", RoleStaff)
	assert.Error(t, err)
	_, err = svc.AddUser("bob", "b@x.com", "pw", "superuser")
	assert.Error(t, err)
}

func TestUsernameUniquenessIsPerTable(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, testConfig())

	_, err := svc.AddUser("alice", "alice@x.com", "pw", RoleStaff)
	require.NoError(t, err)

	// a second staff account with the same username is refused
	_, err = svc.AddUser("alice", "other@x.com", "pw", RoleStaff)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// the admins table is a separate uniqueness domain
	_, err = svc.AddUser("alice", "alice@x.com", "pw", RoleAdmin)
	assert.NoError(t, err)
}

func TestAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, testConfig())

	staff, err := svc.AddUser("carol", "carol@x.com", "secret", RoleStaff)
	require.NoError(t, err)
	_, err = svc.AddUser("dan", "dan@x.com", "adminpw", RoleAdmin)
	require.NoError(t, err)

	account, err := svc.Authenticate("carol", "secret", RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, staff.ID, account.ID)

	// wrong password and unknown user report distinct failures
	_, err = svc.Authenticate("carol", "wrong", RoleStaff)
	require.Error(t, err)
	assert.Equal(t, "incorrect password", err.Error())

	// wrong role: carol has no admin row
	_, err = svc.Authenticate("carol", "secret", RoleAdmin)
	require.Error(t, err)
	assert.Equal(t, "username not found", err.Error())

	// unknown role string
	_, err = svc.Authenticate("carol", "secret", "root")
	assert.Error(t, err)

	_, err = svc.Authenticate("dan", "adminpw", RoleAdmin)
	assert.NoError(t, err)
}

func TestAuthenticateInactiveStaff(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, testConfig())

	account, err := svc.AddUser("eve", "eve@x.com", "pw", RoleStaff)
	require.NoError(t, err)

	_, err = svc.ToggleStaffStatus(account.ID)
	require.NoError(t, err)

	_, err = svc.Authenticate("eve", "pw", RoleStaff)
	require.Error(t, err)
	assert.Equal(t, "account is inactive", err.Error())
}

func TestEditUserPasswordOnlyWhenNonBlank(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, testConfig())

	account, err := svc.AddUser("frank", "frank@x.com", "original", RoleStaff)
	require.NoError(t, err)

	// blank password: email changes, hash stays
	_, err = svc.EditUser(account.ID, RoleStaff, "frank@new.com", "")
	require.NoError(t, err)
	_, err = svc.Authenticate("frank", "original", RoleStaff)
	assert.NoError(t, err)

	// non-blank password: hash is replaced
	_, err = svc.EditUser(account.ID, RoleStaff, "frank@new.com", "rotated")
	require.NoError(t, err)
	_, err = svc.Authenticate("frank", "original", RoleStaff)
	assert.Error(t, err)
	_, err = svc.Authenticate("frank", "rotated", RoleStaff)
	assert.NoError(t, err)
}

func TestToggleStaffStatusFlips(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, testConfig())

	account, err := svc.AddUser("gina", "gina@x.com", "pw", RoleStaff)
	require.NoError(t, err)

	staff, err := svc.ToggleStaffStatus(account.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StaffStatusInactive, staff.Status)

	staff, err = svc.ToggleStaffStatus(account.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StaffStatusActive, staff.Status)
}

func TestAdminCannotDeleteOwnAccount(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, testConfig())

	self, err := svc.AddUser("root", "root@x.com", "pw", RoleAdmin)
	require.NoError(t, err)
	other, err := svc.AddUser("backup", "backup@x.com", "pw", RoleAdmin)
	require.NoError(t, err)

	err = svc.DeleteUser(self.ID, RoleAdmin, self.ID, RoleAdmin)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "your own account")

	// the row is untouched
	var count int64
	db.Model(&models.Admin{}).Where("id = ?", self.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	// deleting a different admin works
	require.NoError(t, svc.DeleteUser(other.ID, RoleAdmin, self.ID, RoleAdmin))
}

func TestDeleteStaffUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, testConfig())

	staff, err := svc.AddUser("henry", "henry@x.com", "pw", RoleStaff)
	require.NoError(t, err)
	admin, err := svc.AddUser("root", "root@x.com", "pw", RoleAdmin)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(staff.ID, RoleStaff, admin.ID, RoleAdmin))

	err = svc.DeleteUser(staff.ID, RoleStaff, admin.ID, RoleAdmin)
	require.Error(t, err)
	assert.Equal(t, "user not found", err.Error())
}

func TestGetAllUsersMergesTables(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, testConfig())

	_, err := svc.AddUser("alice", "alice@x.com", "pw", RoleStaff)
	require.NoError(t, err)
	_, err = svc.AddUser("bob", "bob@x.com", "pw", RoleStaff)
	require.NoError(t, err)
	_, err = svc.AddUser("zara", "zara@x.com", "pw", RoleAdmin)
	require.NoError(t, err)

	all, err := svc.GetAllUsers("", "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	// sorted by username across both tables
	assert.Equal(t, "alice", all[0].Username)
	assert.Equal(t, "zara", all[2].Username)

	staffOnly, err := svc.GetAllUsers(RoleStaff, "")
	require.NoError(t, err)
	assert.Len(t, staffOnly, 2)

	search, err := svc.GetAllUsers("", "zara")
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, RoleAdmin, search[0].Role)
}
