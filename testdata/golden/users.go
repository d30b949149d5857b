package users

func GetUserData(id string) error {
	database.Delete(id)
	cache.Remove(id)
	return nil
}

func DeleteUser(id string) {
	database.Delete(id)
	cache.Remove(id)
}
