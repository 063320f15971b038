package internal

const COOKIE_ACCESS_TOKEN_NAME = "designhub_access_token"
